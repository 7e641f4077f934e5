package designs

import (
	"context"
	"fmt"
	"strings"

	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/checkout"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
)

type designClient interface {
	CreateDesign(ctx context.Context, input backend.DesignInput) (string, error)
	Logos(ctx context.Context) ([]backend.Design, error)
}

type checkoutStarter interface {
	Begin(ctx context.Context, intent checkout.PurchaseIntent, fulfill checkout.Fulfillment) (*checkout.Session, error)
}

// Service handles custom jersey designs: free submissions, paid submissions
// that go through a payment link first, and listing the user's past designs.
type Service struct {
	client designClient
	mgr    checkoutStarter
	logg   *logger.Logger
}

// NewService wires the design service.
func NewService(client designClient, mgr checkoutStarter, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{client: client, mgr: mgr, logg: logg}, nil
}

// Submit stores a design without charging. Used when the design fee is zero.
func (s *Service) Submit(ctx context.Context, input backend.DesignInput) (string, error) {
	if err := validateDesign(input); err != nil {
		return "", err
	}
	return s.client.CreateDesign(ctx, input)
}

// SubmitPaid charges the design fee through a payment link and stores the
// design only after payment settles. Returns the checkout session whose URL
// the caller hands to the buyer.
func (s *Service) SubmitPaid(ctx context.Context, userID string, input backend.DesignInput) (*checkout.Session, error) {
	if s.mgr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "paid design submissions are not configured")
	}
	if err := validateDesign(input); err != nil {
		return nil, err
	}
	if input.Price.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design price must be positive for paid submission")
	}

	intent := checkout.PurchaseIntent{
		UserID:      userID,
		Email:       input.Email,
		Description: "Custom jersey design: " + input.Name,
		Lines: []checkout.IntentLine{
			{
				Name:      input.Name,
				Size:      input.Size,
				Category:  "custom-design",
				UnitPrice: input.Price,
				Quantity:  1,
			},
		},
	}

	return s.mgr.Begin(ctx, intent, &designFulfillment{client: s.client, input: input})
}

// ForUser lists designs submitted under the given email. The backend serves
// every design; filtering is the client's job.
func (s *Service) ForUser(ctx context.Context, email string) ([]backend.Design, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	all, err := s.client.Logos(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]backend.Design, 0, len(all))
	for _, design := range all {
		if strings.EqualFold(design.Email, email) {
			mine = append(mine, design)
		}
	}
	return mine, nil
}

// designFulfillment stores the design once the design fee is paid.
type designFulfillment struct {
	client designClient
	input  backend.DesignInput
}

func (d *designFulfillment) Fulfill(ctx context.Context, _ checkout.PurchaseIntent) error {
	_, err := d.client.CreateDesign(ctx, d.input)
	return err
}

func validateDesign(input backend.DesignInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "design name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.ImgURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "design image is required")
	}
	return nil
}
