package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtcolectivo/backend-colectivo/internal/common"
	"github.com/mtcolectivo/backend-colectivo/internal/obs"
	"github.com/mtcolectivo/backend-colectivo/internal/pricing"
)

// FormSubmission is a booking request from the public web form.
type FormSubmission struct {
	Nombre     string `json:"nombre" validate:"required,max=200"`
	Fecha      string `json:"fecha" validate:"required,max=50"`
	DirSalida  string `json:"dir_salida" validate:"required,max=300"`
	DirDestino string `json:"dir_destino" validate:"required,max=300"`
	HorIda     string `json:"hor_ida" validate:"required,max=30"`
	HorRegreso string `json:"hor_regreso" validate:"required,max=30"`
	Pasajeros  int    `json:"pasajeros" validate:"required,min=1,max=500"`
}

// UpdatePatch carries the admin-editable order fields. Nil pointers leave the
// stored value untouched.
type UpdatePatch struct {
	Nombre     *string  `json:"nombre"`
	Fecha      *string  `json:"fecha"`
	DirSalida  *string  `json:"dir_salida"`
	DirDestino *string  `json:"dir_destino"`
	HorIda     *string  `json:"hor_ida"`
	HorRegreso *string  `json:"hor_regreso"`
	Duracion   *float64 `json:"duracion"`
	Capacidadu *int     `json:"capacidadu"`
	Subtotal   *float64 `json:"subtotal"`
	Descuento  *float64 `json:"descuento"`
	Abonado    *float64 `json:"abonado"`
	FechaAbono *string  `json:"fecha_abono"`
}

// Service coordinates order creation, pricing, and balance mutations.
type Service struct {
	Repo   Repository
	Engine *pricing.Engine
	Logger zerolog.Logger
	now    func() time.Time
}

// NewService constructs an order service.
func NewService(repo Repository, engine *pricing.Engine, logger zerolog.Logger) *Service {
	return &Service{Repo: repo, Engine: engine, Logger: logger, now: time.Now}
}

// CreateFromForm prices the submitted trip and persists the resulting order.
// Fresh orders start with no discount and no payments.
func (s *Service) CreateFromForm(ctx context.Context, form FormSubmission) (Order, error) {
	quote := s.Engine.Quote(form.Pasajeros, form.DirDestino, form.HorIda, form.HorRegreso)
	balance := pricing.Recompute(quote.Total, 0, 0)

	o := Order{
		ID:         uuid.New(),
		Nombre:     strings.TrimSpace(form.Nombre),
		Fecha:      strings.TrimSpace(form.Fecha),
		DirSalida:  strings.TrimSpace(form.DirSalida),
		DirDestino: strings.TrimSpace(form.DirDestino),
		HorIda:     strings.TrimSpace(form.HorIda),
		HorRegreso: strings.TrimSpace(form.HorRegreso),
		Duracion:   quote.DurationHours,
		Capacidadu: int(quote.Tier),
		Subtotal:   balance.Subtotal,
		Descuento:  balance.Discount,
		Total:      balance.Total,
		Abonado:    balance.Paid,
		Liquidar:   balance.Due,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, o); err != nil {
		return Order{}, err
	}
	countOrderCreated("form")
	s.Logger.Info().
		Str("order_id", o.ID.String()).
		Int("capacidadu", o.Capacidadu).
		Float64("total", o.Total).
		Msg("order created from form")
	return o, nil
}

// CreateFromRecord persists an order built from a staff spreadsheet row.
// Monetary columns pass through the tolerant parser, and the balance
// invariants are re-established from whatever figures the sheet carried.
func (s *Service) CreateFromRecord(ctx context.Context, rec map[string]string) (Order, error) {
	get := func(key string) string { return strings.TrimSpace(rec[key]) }

	subtotal := common.ParseMoney(get("SUBTOTAL"))
	if subtotal == 0 {
		// Older sheets only carry a TOTAL column.
		subtotal = common.ParseMoney(get("TOTAL"))
	}
	descuento := common.ParseMoney(get("DESCUENTO"))
	abonado := common.ParseMoney(get("ABONADO"))
	balance := pricing.Recompute(subtotal, descuento, abonado)

	capacidad := 0
	if v := get("CAPACIDADU"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			capacidad = parsed
		}
	}

	o := Order{
		ID:         uuid.New(),
		Nombre:     get("NOMBRE"),
		Fecha:      get("FECHA"),
		DirSalida:  get("DIR_SALIDA"),
		DirDestino: get("DIR_DESTINO"),
		HorIda:     get("HOR_IDA"),
		HorRegreso: get("HOR_REGRESO"),
		Duracion:   common.ParseMoney(get("DURACION")),
		Capacidadu: capacidad,
		Subtotal:   balance.Subtotal,
		Descuento:  balance.Discount,
		Total:      balance.Total,
		Abonado:    balance.Paid,
		FechaAbono: get("FECHA_ABONO"),
		Liquidar:   balance.Due,
		CreatedAt:  s.now().UTC(),
	}
	if o.Nombre == "" {
		return Order{}, common.NewAppError("BAD_REQUEST", "spreadsheet row has no NOMBRE column", 400, nil)
	}
	if err := s.Repo.Create(ctx, o); err != nil {
		return Order{}, err
	}
	countOrderCreated("spreadsheet")
	return o, nil
}

// List returns a page of orders plus the total count.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	orders, err := s.Repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Get fetches a single order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.Repo.Get(ctx, id)
}

// Update applies the patch and re-establishes the balance invariants.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (Order, error) {
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&o.Nombre, patch.Nombre)
	applyString(&o.Fecha, patch.Fecha)
	applyString(&o.DirSalida, patch.DirSalida)
	applyString(&o.DirDestino, patch.DirDestino)
	applyString(&o.HorIda, patch.HorIda)
	applyString(&o.HorRegreso, patch.HorRegreso)
	applyString(&o.FechaAbono, patch.FechaAbono)
	if patch.Duracion != nil {
		o.Duracion = *patch.Duracion
	}
	if patch.Capacidadu != nil {
		o.Capacidadu = *patch.Capacidadu
	}
	if patch.Subtotal != nil {
		o.Subtotal = *patch.Subtotal
	}
	if patch.Descuento != nil {
		o.Descuento = *patch.Descuento
	}
	if patch.Abonado != nil {
		o.Abonado = *patch.Abonado
	}

	balance := pricing.Recompute(o.Subtotal, o.Descuento, o.Abonado)
	o.Total = balance.Total
	o.Liquidar = balance.Due

	if err := s.Repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Repo.Delete(ctx, id)
}

// ToggleDiscount flips the 10% discount on an order and recomputes its
// balance. Toggling twice restores the original figures.
func (s *Service) ToggleDiscount(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	balance := pricing.ToggleDiscount(o.Subtotal, o.Descuento, o.Abonado)
	o.Descuento = balance.Discount
	o.Total = balance.Total
	o.Liquidar = balance.Due
	if err := s.Repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	countPayment("toggle_discount")
	return o, nil
}

// AddPayment records a payment against an order. Non-positive amounts are
// rejected with pricing.ErrInvalidAmount.
func (s *Service) AddPayment(ctx context.Context, id uuid.UUID, amount float64, fecha string) (Order, error) {
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	paid, due, err := pricing.AddPayment(o.Total, o.Abonado, amount)
	if err != nil {
		return Order{}, common.NewAppError("INVALID_AMOUNT", "payment amount must be positive", 400, err)
	}
	o.Abonado = paid
	o.Liquidar = due
	if fecha = strings.TrimSpace(fecha); fecha != "" {
		o.FechaAbono = fecha
	} else {
		o.FechaAbono = s.now().UTC().Format("2006-01-02")
	}
	if err := s.Repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	countPayment("add_payment")
	s.Logger.Info().
		Str("order_id", o.ID.String()).
		Float64("amount", amount).
		Float64("abonado", o.Abonado).
		Msg("payment recorded")
	return o, nil
}

// ResetPayment clears all payments on an order.
func (s *Service) ResetPayment(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	paid, due := pricing.ResetPayment(o.Total)
	o.Abonado = paid
	o.Liquidar = due
	o.FechaAbono = ""
	if err := s.Repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	countPayment("reset_payment")
	return o, nil
}

func countOrderCreated(source string) {
	if obs.OrdersCreatedTotal != nil {
		obs.OrdersCreatedTotal.WithLabelValues(source).Inc()
	}
}

func countPayment(op string) {
	if obs.PaymentsRecordedTotal != nil {
		obs.PaymentsRecordedTotal.WithLabelValues(op).Inc()
	}
}

// ParseID converts a path parameter into an order id.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("order: invalid id %q: %w", raw, err)
	}
	return id, nil
}
