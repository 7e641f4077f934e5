package designs

import (
	"context"
	"io"
	"testing"

	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/checkout"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeDesigns struct {
	created []backend.DesignInput
	logos   []backend.Design
	err     error
}

func (f *fakeDesigns) CreateDesign(ctx context.Context, input backend.DesignInput) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, input)
	return "d1", nil
}

func (f *fakeDesigns) Logos(ctx context.Context) ([]backend.Design, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.logos, nil
}

type fakeStarter struct {
	intent  checkout.PurchaseIntent
	fulfill checkout.Fulfillment
}

func (f *fakeStarter) Begin(ctx context.Context, intent checkout.PurchaseIntent, fulfill checkout.Fulfillment) (*checkout.Session, error) {
	f.intent = intent
	f.fulfill = fulfill
	return &checkout.Session{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func validInput() backend.DesignInput {
	return backend.DesignInput{
		Name:   "Lightning Kit",
		Email:  "buyer@example.com",
		ImgURL: "https://cdn.example.com/design.png",
		Size:   "L",
		Color:  "blue",
		Price:  decimal.NewFromInt(1200),
	}
}

func TestSubmitCreatesDesign(t *testing.T) {
	fb := &fakeDesigns{}
	svc, err := NewService(fb, nil, testLogger())
	require.NoError(t, err)

	id, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "d1", id)
	require.Len(t, fb.created, 1)
}

func TestSubmitValidation(t *testing.T) {
	fb := &fakeDesigns{}
	svc, err := NewService(fb, nil, testLogger())
	require.NoError(t, err)

	for name, mutate := range map[string]func(*backend.DesignInput){
		"missing name":  func(i *backend.DesignInput) { i.Name = "" },
		"missing email": func(i *backend.DesignInput) { i.Email = " " },
		"missing image": func(i *backend.DesignInput) { i.ImgURL = "" },
	} {
		t.Run(name, func(t *testing.T) {
			input := validInput()
			mutate(&input)
			_, err := svc.Submit(context.Background(), input)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
	require.Empty(t, fb.created)
}

func TestSubmitPaidBuildsIntentAndDeferredCreation(t *testing.T) {
	fb := &fakeDesigns{}
	starter := &fakeStarter{}
	svc, err := NewService(fb, starter, testLogger())
	require.NoError(t, err)

	_, err = svc.SubmitPaid(context.Background(), "u1", validInput())
	require.NoError(t, err)

	require.Equal(t, "u1", starter.intent.UserID)
	require.True(t, starter.intent.Total().Equal(decimal.NewFromInt(1200)))
	require.Empty(t, fb.created, "design is not stored before payment")

	require.NoError(t, starter.fulfill.Fulfill(context.Background(), starter.intent))
	require.Len(t, fb.created, 1, "design stored once payment settles")
}

func TestSubmitPaidRejectsZeroPrice(t *testing.T) {
	svc, err := NewService(&fakeDesigns{}, &fakeStarter{}, testLogger())
	require.NoError(t, err)

	input := validInput()
	input.Price = decimal.Zero
	_, err = svc.SubmitPaid(context.Background(), "u1", input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestForUserFiltersByEmail(t *testing.T) {
	fb := &fakeDesigns{logos: []backend.Design{
		{ID: "d1", Email: "buyer@example.com"},
		{ID: "d2", Email: "other@example.com"},
		{ID: "d3", Email: "Buyer@Example.com"},
	}}
	svc, err := NewService(fb, nil, testLogger())
	require.NoError(t, err)

	mine, err := svc.ForUser(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "d1", mine[0].ID)
	require.Equal(t, "d3", mine[1].ID)
}

func TestForUserRequiresEmail(t *testing.T) {
	svc, err := NewService(&fakeDesigns{}, nil, testLogger())
	require.NoError(t, err)

	_, err = svc.ForUser(context.Background(), "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
