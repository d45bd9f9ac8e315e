package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/ids"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName(r *rand.Rand) string {
	surname := commonSurnames[r.Intn(len(commonSurnames))]
	nameLength := r.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[r.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateHandleFromChineseName 用拼音前缀加数字生成客户账号，例如 "zhangw12"
func GenerateHandleFromChineseName(r *rand.Rand, chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	handle := ""

	for _, py := range pinyinArray {
		length := r.Intn(len(py)) + 1
		handle += py[:length]
	}

	digitsLength := r.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		handle += string(digits[r.Intn(len(digits))])
	}

	return handle
}

// Initials 取每个汉字拼音的首字母并大写，例如 "华印" -> "HY"
func Initials(s string) string {
	var b strings.Builder
	for _, py := range pinyin.LazyConvert(s, nil) {
		if py == "" {
			continue
		}
		b.WriteString(strings.ToUpper(py[:1]))
	}
	return b.String()
}

var letters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomID(r *rand.Rand, letterLength int, digitLength int) string {
	randomID := make([]rune, letterLength+digitLength)
	for i := range randomID {
		if i < letterLength {
			randomID[i] = letters[r.Intn(len(letters))]
		} else {
			randomID[i] = rune(digits[r.Intn(len(digits))])
		}
	}
	return string(randomID)
}

var products = []string{
	"文化衫", "帆布袋", "马克杯", "棒球帽", "卫衣", "保温杯", "徽章", "笔记本", "雨伞", "鼠标垫",
}

var printMethods = []string{"丝印", "热转印", "刺绣", "数码直喷", "烫金"}

var vendors = []string{"华印科技", "恒达织造", "美途礼品", "佳彩包装", "宏远制衣", "顺风物料"}

var itemNames = []string{"样稿", "面料", "辅料", "印版", "包装", "质检"}

// MockGenerator 生成演示用的订单和采购单，随机源和 ID 生成器由调用方注入
// r 不是并发安全的，由 mu 保护
type MockGenerator struct {
	mu    sync.Mutex
	r     *rand.Rand
	ids   ids.Generator
	today slot.Date
	poSeq int
}

func NewMockGenerator(r *rand.Rand, gen ids.Generator, today slot.Date) *MockGenerator {
	return &MockGenerator{r: r, ids: gen, today: today}
}

func (g *MockGenerator) Orders(n int) []domain.Order {
	g.mu.Lock()
	defer g.mu.Unlock()

	orders := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, g.order())
	}
	return orders
}

func (g *MockGenerator) order() domain.Order {
	r := g.r
	customer := GenerateRandomChineseName(r)
	product := products[r.Intn(len(products))]
	method := printMethods[r.Intn(len(printMethods))]

	itemCount := r.Intn(4) + 1
	items := make([]domain.OrderItem, itemCount)
	for i := range items {
		items[i] = domain.OrderItem{
			Name:     itemNames[(i+r.Intn(len(itemNames)))%len(itemNames)],
			Quantity: (r.Intn(20) + 1) * 10,
			Complete: r.Intn(4) == 0,
		}
	}

	return domain.Order{
		ID:               g.ids.NewID(),
		Name:             fmt.Sprintf("%s%s · %s", method, product, GenerateHandleFromChineseName(r, customer)),
		Customer:         customer,
		EstimatedMinutes: (r.Intn(8) + 1) * 15,
		Deadline:         g.today.AddDays(r.Intn(14)),
		ShelfLocation:    fmt.Sprintf("%c%d-%02d", 'A'+rune(r.Intn(6)), r.Intn(4)+1, r.Intn(30)+1),
		Status:           domain.OrderStatuses[r.Intn(len(domain.OrderStatuses))],
		Items:            items,
		Vendor:           vendors[r.Intn(len(vendors))],
		Fulfillment:      domain.Fulfillments[r.Intn(len(domain.Fulfillments))],
	}
}

func (g *MockGenerator) PurchaseOrders(n int, now time.Time) []domain.PurchaseOrder {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.r
	pos := make([]domain.PurchaseOrder, 0, n)
	for i := 0; i < n; i++ {
		vendor := vendors[r.Intn(len(vendors))]
		g.poSeq++

		lineCount := r.Intn(4) + 1
		lines := make([]domain.PurchaseOrderLine, lineCount)
		received := 0
		for j := range lines {
			ordered := (r.Intn(10) + 1) * 50
			got := 0
			switch r.Intn(3) {
			case 1:
				got = ordered
			case 2:
				got = r.Intn(ordered)
			}
			if got == ordered {
				received++
			}
			lines[j] = domain.PurchaseOrderLine{
				SKU:      Initials(vendor) + "-" + GenerateRandomID(r, 2, 4),
				Name:     products[r.Intn(len(products))],
				Ordered:  ordered,
				Received: got,
			}
		}

		status := domain.PurchaseOrderPartial
		switch received {
		case 0:
			status = domain.PurchaseOrderOpen
		case lineCount:
			status = domain.PurchaseOrderReceived
		}

		pos = append(pos, domain.PurchaseOrder{
			ID:        fmt.Sprintf("PO-%s-%04d", Initials(vendor), g.poSeq),
			Vendor:    vendor,
			Status:    status,
			Expected:  g.today.AddDays(r.Intn(10)),
			Lines:     lines,
			CreatedAt: now.Add(-time.Duration(r.Intn(72)) * time.Hour),
		})
	}
	return pos
}

// GenerateRandomBookOut 生成一个落在当天范围内的停机时段，供 cmd/seed 输出 CSV
func GenerateRandomBookOut(r *rand.Rand, date slot.Date) domain.BookOut {
	start := r.Intn(slot.PerDay)
	duration := slot.ClampDuration(start, r.Intn(3)+1)
	reasons := []string{"设备保养", "换版", "午休", "培训", "来料检验"}

	return domain.BookOut{
		View:     slot.ViewPrinters,
		Date:     date,
		Line:     r.Intn(slot.LineCount),
		Start:    start,
		Duration: duration,
		Reason:   reasons[r.Intn(len(reasons))],
	}
}
