package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mtcolectivo/backend-colectivo/internal/pricing"
)

type fakeRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]Order
	seq    []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[uuid.UUID]Order)}
}

func (f *fakeRepo) Create(_ context.Context, o Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = o
	f.seq = append(f.seq, o.ID)
	return nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Order, 0, limit)
	for i := offset; i < len(f.seq) && len(out) < limit; i++ {
		out = append(out, f.orders[f.seq[i]])
	}
	return out, nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.seq)), nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) Update(_ context.Context, o Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[o.ID]; !ok {
		return ErrNotFound
	}
	f.orders[o.ID] = o
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return ErrNotFound
	}
	delete(f.orders, id)
	for i, got := range f.seq {
		if got == id {
			f.seq = append(f.seq[:i], f.seq[i+1:]...)
			break
		}
	}
	return nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	engine := pricing.NewEngine(pricing.DefaultTable(), nil, zerolog.Nop())
	svc := NewService(repo, engine, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateFromFormPricesFlatTrip(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	o, err := svc.CreateFromForm(context.Background(), FormSubmission{
		Nombre:     "Ana Lopez",
		Fecha:      "2024-06-01",
		DirSalida:  "Centro",
		DirDestino: "Playa Grande",
		HorIda:     "9:00 am",
		HorRegreso: "1:00 pm",
		Pasajeros:  10,
	})
	require.NoError(t, err)
	require.Equal(t, 14, o.Capacidadu)
	require.InDelta(t, 4.0, o.Duracion, 1e-9)
	require.InDelta(t, 4500.0, o.Subtotal, 1e-9)
	require.InDelta(t, 4500.0, o.Total, 1e-9)
	require.InDelta(t, 0.0, o.Abonado, 1e-9)
	require.InDelta(t, 4500.0, o.Liquidar, 1e-9)
}

func TestCreateFromFormPricesSpecialDestination(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	o, err := svc.CreateFromForm(context.Background(), FormSubmission{
		Nombre:     "Luis",
		Fecha:      "2024-06-01",
		DirSalida:  "Centro",
		DirDestino: "Cantaritos Tour",
		HorIda:     "10:00 am",
		HorRegreso: "2:00 pm",
		Pasajeros:  6,
	})
	require.NoError(t, err)
	require.Equal(t, 6, o.Capacidadu)
	require.InDelta(t, 2250.0, o.Total, 1e-9)
}

func TestToggleDiscountIsInvolutive(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	o, err := svc.CreateFromForm(context.Background(), FormSubmission{
		Nombre: "Ana", Fecha: "2024-06-01", DirSalida: "a", DirDestino: "Playa",
		HorIda: "9:00 am", HorRegreso: "1:00 pm", Pasajeros: 10,
	})
	require.NoError(t, err)

	withDiscount, err := svc.ToggleDiscount(context.Background(), o.ID)
	require.NoError(t, err)
	require.InDelta(t, 450.0, withDiscount.Descuento, 1e-9)
	require.InDelta(t, 4050.0, withDiscount.Total, 1e-9)

	restored, err := svc.ToggleDiscount(context.Background(), o.ID)
	require.NoError(t, err)
	require.InDelta(t, o.Descuento, restored.Descuento, 1e-9)
	require.InDelta(t, o.Total, restored.Total, 1e-9)
	require.InDelta(t, o.Liquidar, restored.Liquidar, 1e-9)
}

func TestAddPaymentThenReset(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	o, err := svc.CreateFromForm(context.Background(), FormSubmission{
		Nombre: "Ana", Fecha: "2024-06-01", DirSalida: "a", DirDestino: "Playa",
		HorIda: "9:00 am", HorRegreso: "1:00 pm", Pasajeros: 10,
	})
	require.NoError(t, err)

	paid, err := svc.AddPayment(context.Background(), o.ID, 1000, "")
	require.NoError(t, err)
	require.InDelta(t, 1000.0, paid.Abonado, 1e-9)
	require.InDelta(t, 3500.0, paid.Liquidar, 1e-9)
	require.Equal(t, "2024-05-10", paid.FechaAbono)

	_, err = svc.AddPayment(context.Background(), o.ID, -5, "")
	require.Error(t, err)

	reset, err := svc.ResetPayment(context.Background(), o.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.0, reset.Abonado, 1e-9)
	require.InDelta(t, reset.Total, reset.Liquidar, 1e-9)
	require.Empty(t, reset.FechaAbono)
}

func TestAddPaymentDefaultDateIsUTC(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	// 23:30 at UTC-5 is already the next day in UTC, like CreatedAt.
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	}

	o, err := svc.CreateFromForm(context.Background(), FormSubmission{
		Nombre: "Ana", Fecha: "2024-06-01", DirSalida: "a", DirDestino: "Playa",
		HorIda: "9:00 am", HorRegreso: "1:00 pm", Pasajeros: 10,
	})
	require.NoError(t, err)

	paid, err := svc.AddPayment(context.Background(), o.ID, 500, "")
	require.NoError(t, err)
	require.Equal(t, "2024-05-11", paid.FechaAbono)
}

func TestUpdateRecomputesBalance(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	o, err := svc.CreateFromForm(context.Background(), FormSubmission{
		Nombre: "Ana", Fecha: "2024-06-01", DirSalida: "a", DirDestino: "Playa",
		HorIda: "9:00 am", HorRegreso: "1:00 pm", Pasajeros: 10,
	})
	require.NoError(t, err)

	subtotal := 6000.0
	descuento := 500.0
	updated, err := svc.Update(context.Background(), o.ID, UpdatePatch{
		Subtotal:  &subtotal,
		Descuento: &descuento,
	})
	require.NoError(t, err)
	require.InDelta(t, 5500.0, updated.Total, 1e-9)
	require.InDelta(t, 5500.0, updated.Liquidar, 1e-9)
}

func TestCreateFromRecordFallsBackToTotalColumn(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	o, err := svc.CreateFromRecord(context.Background(), map[string]string{
		"NOMBRE":     "Maria",
		"FECHA":      "2024-06-02",
		"TOTAL":      "$4,500.00",
		"ABONADO":    "500",
		"CAPACIDADU": "14",
	})
	require.NoError(t, err)
	require.InDelta(t, 4500.0, o.Subtotal, 1e-9)
	require.InDelta(t, 4500.0, o.Total, 1e-9)
	require.InDelta(t, 500.0, o.Abonado, 1e-9)
	require.InDelta(t, 4000.0, o.Liquidar, 1e-9)
	require.Equal(t, 14, o.Capacidadu)
}

func TestCreateFromRecordRequiresName(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.CreateFromRecord(context.Background(), map[string]string{"TOTAL": "100"})
	require.Error(t, err)
}

func TestListPaginates(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateFromForm(context.Background(), FormSubmission{
			Nombre: "c", Fecha: "f", DirSalida: "s", DirDestino: "d",
			HorIda: "9:00 am", HorRegreso: "10:00 am", Pasajeros: 4,
		})
		require.NoError(t, err)
	}

	page, total, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, page, 2)
}

func TestTemplateMappingFormatsMoney(t *testing.T) {
	t.Parallel()
	o := Order{
		Nombre:   "Ana",
		Subtotal: 4500, Descuento: 450, Total: 4050,
		Abonado: 1000, Liquidar: 3050,
		Duracion: 4, Capacidadu: 14,
	}
	m := o.TemplateMapping()
	got, ok := m.Get("SUBTOTAL")
	require.True(t, ok)
	require.Equal(t, "4500.00", got)
	got, _ = m.Get("LIQUIDAR")
	require.Equal(t, "3050.00", got)
	got, _ = m.Get("DURACION")
	require.Equal(t, "4.0", got)
	got, _ = m.Get("CAPACIDADU")
	require.Equal(t, "14", got)
}
