package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/config"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/handoff"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/interaction"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/timeline"
)

// Publisher 是 *amqp.Channel 中用于发布消息的部分
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

const (
	BoardTimeline  = "timeline"
	BoardReceiving = "receiving"
)

type board struct {
	*timeline.Board
	controller *interaction.Controller
	// 收货看板额外展示供应商和配送方式
	receiving bool
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	translator  ut.Translator
	mailChannel Publisher
	handoff     handoff.Store
	catalog     *catalog.Catalog
	boards      map[string]*board

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, cat *catalog.Catalog, boards []*timeline.Board, mailCh Publisher, store handoff.Store) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	bm := make(map[string]*board, len(boards))
	for _, b := range boards {
		bm[b.Name()] = &board{
			Board:      b,
			controller: interaction.NewController(b, cat),
			receiving:  b.Name() == BoardReceiving,
		}
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		translator:  trans,
		mailChannel: mailCh,
		handoff:     store,
		catalog:     cat,
		boards:      bm,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/health", h.Health)

	// 订单
	h.Mux.Route("/orders", func(r chi.Router) {
		r.Get("/", h.GetOrders)
		r.Post("/load-more", h.LoadMoreOrders)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.order)
			r.Get("/", h.GetOrder)
			r.Patch("/items/{index}", h.UpdateOrderItem)
			r.Patch("/status", h.UpdateOrderStatus)
		})
	})

	// 采购单
	h.Mux.Route("/purchase-orders", func(r chi.Router) {
		r.Get("/", h.GetPurchaseOrders)
		r.Get("/handoff/{id}", h.GetPurchaseOrderHandoff)
		r.With(h.purchaseOrder).Post("/{id}/open", h.OpenPurchaseOrder)
	})

	h.Mux.Post("/api/corporate-inquiry", h.CreateCorporateInquiry)

	// 看板，timeline 和 receiving 共用同一套接口
	h.Mux.Route("/boards/{board}", func(r chi.Router) {
		r.Use(h.board)

		r.Route("/days/{date}", func(r chi.Router) {
			r.Use(h.day)
			r.Get("/", h.GetDay)
			r.Get("/cells/{line}/{slot}", h.GetCell)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Route("/{orderID}", func(r chi.Router) {
				r.Use(h.assignment)
				r.Patch("/", h.UpdateAssignment)
				r.Post("/resize", h.ResizeAssignment)
				r.Delete("/", h.DeleteAssignment)
			})
		})

		r.Route("/book-outs", func(r chi.Router) {
			r.Get("/", h.GetBookOuts)
			r.Post("/", h.CreateBookOut)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.bookOut)
				r.Patch("/", h.UpdateBookOut)
				r.Patch("/duration", h.UpdateBookOutDuration)
				r.Delete("/", h.DeleteBookOut)
			})
		})

		r.Route("/gestures/{session}", func(r chi.Router) {
			r.Post("/drag", h.BeginDrag)
			r.Post("/over", h.DragOver)
			r.Post("/drop", h.Drop)
			r.Post("/drop-list", h.DropOnList)
			r.Post("/resize", h.BeginResize)
			r.Post("/resize/move", h.ResizeMove)
			r.Post("/resize/end", h.EndResize)
			r.Delete("/", h.CancelGesture)
		})
	})
}
