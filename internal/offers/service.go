package offers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osgiliath-dev/tradepost/internal/inventory"
	"github.com/osgiliath-dev/tradepost/internal/users"
	"github.com/osgiliath-dev/tradepost/pkg/db"
	"github.com/osgiliath-dev/tradepost/pkg/db/models"
	"github.com/osgiliath-dev/tradepost/pkg/enums"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
	"github.com/osgiliath-dev/tradepost/pkg/pagination"
)

// Service is the offer engine: it validates proposals, creates offers, and
// executes the atomic exchange when the receiver responds. It is the only
// component that mutates inventories across users.
type Service interface {
	Propose(ctx context.Context, params ProposeParams) (*OfferDTO, error)
	Respond(ctx context.Context, offerID, responderID uuid.UUID, decision string) (*OfferDTO, error)
	Get(ctx context.Context, offerID uuid.UUID) (*OfferDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ListReceived(ctx context.Context, receiverID uuid.UUID) ([]OfferDTO, error)
}

type service struct {
	client    *db.Client
	userRepo  *users.Repository
	invRepo   *inventory.Repository
	offerRepo *Repository
}

// ServiceParams bundles the engine's collaborators.
type ServiceParams struct {
	Client        *db.Client
	UserRepo      *users.Repository
	InventoryRepo *inventory.Repository
	OfferRepo     *Repository
}

// NewService wires the offer engine dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "db client required")
	}
	if params.UserRepo == nil || params.InventoryRepo == nil || params.OfferRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "offer engine repositories required")
	}
	return &service{
		client:    params.Client,
		userRepo:  params.UserRepo,
		invRepo:   params.InventoryRepo,
		offerRepo: params.OfferRepo,
	}, nil
}

// Propose validates that both parties exist and currently hold the cited
// items, then persists a pending offer. No inventory moves here: the check is
// a feasibility snapshot, re-validated at acceptance time.
func (s *service) Propose(ctx context.Context, params ProposeParams) (*OfferDTO, error) {
	if params.SenderID == uuid.Nil || params.ReceiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender and receiver ids required")
	}
	if params.SenderID == params.ReceiverID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender and receiver must differ")
	}
	if err := params.SenderItems.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sender items")
	}
	if err := params.ReceiverItems.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid receiver items")
	}

	if err := s.resolveParty(ctx, params.SenderID); err != nil {
		return nil, err
	}
	if err := s.resolveParty(ctx, params.ReceiverID); err != nil {
		return nil, err
	}

	if err := s.checkHoldings(ctx, "sender", params.SenderID, params.SenderItems.Items(), params.SenderItems); err != nil {
		return nil, err
	}
	if err := s.checkHoldings(ctx, "receiver", params.ReceiverID, params.ReceiverItems.Items(), params.ReceiverItems); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		SenderID:      params.SenderID,
		ReceiverID:    params.ReceiverID,
		SenderItems:   params.SenderItems,
		ReceiverItems: params.ReceiverItems,
		Status:        enums.OfferStatusPending,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
	}
	return FromModel(offer), nil
}

func (s *service) resolveParty(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "sender or receiver not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve party")
	}
	return nil
}

func (s *service) checkHoldings(ctx context.Context, party string, userID uuid.UUID, order []string, items map[string]int) error {
	for _, item := range order {
		needed := items[item]
		held, err := s.invRepo.Quantity(ctx, userID, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read inventory")
		}
		if held == 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficient,
				fmt.Sprintf("%s does not have %s in inventory", party, item))
		}
		if held < needed {
			return pkgerrors.New(pkgerrors.CodeInsufficient,
				fmt.Sprintf("%s does not have %d %s to barter", party, needed, item))
		}
	}
	return nil
}

// Respond resolves a pending offer. Rejection only flips the status. The
// accept path re-validates and swaps both parties' holdings inside a single
// transaction: the pending check-and-set, every decrement and increment, and
// the status change commit together or roll back together, so a stale offer
// never leaves a partial exchange behind.
//
// Error precedence mirrors the public contract: missing offer, then wrong
// responder, then resolved offer (both 401), then a malformed decision.
func (s *service) Respond(ctx context.Context, offerID, responderID uuid.UUID, decision string) (*OfferDTO, error) {
	if offerID == uuid.Nil || responderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer and responder ids required")
	}

	var resolved *models.Offer
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		offerRepo := s.offerRepo.WithTx(tx)
		invRepo := s.invRepo.WithTx(tx)

		offer, err := offerRepo.FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
		}

		if offer.ReceiverID != responderID {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "only the receiver may respond to this offer")
		}
		if offer.Status != enums.OfferStatusPending {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "offer is no longer pending")
		}

		parsed, err := enums.ParseOfferDecision(decision)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decision")
		}

		target := enums.OfferStatusRejected
		if parsed == enums.OfferDecisionAccept {
			target = enums.OfferStatusAccepted
		}

		won, err := offerRepo.TransitionFromPending(ctx, offer.ID, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition offer")
		}
		if !won {
			// Lost the race against a concurrent responder.
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "offer is no longer pending")
		}

		if parsed == enums.OfferDecisionAccept {
			if err := s.exchange(ctx, invRepo, offer); err != nil {
				return err
			}
		}

		offer.Status = target
		resolved = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(resolved), nil
}

// exchange moves receiver_items from receiver to sender and sender_items
// from sender to receiver. Decrements are conditional on current holdings:
// a shortfall means holdings changed after proposal, surfaced as a stale
// offer so the sender can re-propose. Runs inside the caller's transaction.
func (s *service) exchange(ctx context.Context, invRepo *inventory.Repository, offer *models.Offer) error {
	for _, item := range offer.ReceiverItems.Items() {
		qty := offer.ReceiverItems[item]
		taken, err := invRepo.TakeIfAvailable(ctx, offer.ReceiverID, item, qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit receiver inventory")
		}
		if !taken {
			return pkgerrors.New(pkgerrors.CodeStaleOffer,
				fmt.Sprintf("receiver no longer has %d %s to barter, please submit a renewed offer", qty, item))
		}
		if err := invRepo.Grant(ctx, offer.SenderID, item, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit sender inventory")
		}
	}

	for _, item := range offer.SenderItems.Items() {
		qty := offer.SenderItems[item]
		taken, err := invRepo.TakeIfAvailable(ctx, offer.SenderID, item, qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit sender inventory")
		}
		if !taken {
			return pkgerrors.New(pkgerrors.CodeStaleOffer,
				fmt.Sprintf("sender no longer has %d %s to barter, please submit a renewed offer", qty, item))
		}
		if err := invRepo.Grant(ctx, offer.ReceiverID, item, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit receiver inventory")
		}
	}

	return nil
}

func (s *service) Get(ctx context.Context, offerID uuid.UUID) (*OfferDTO, error) {
	if offerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id required")
	}
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	return FromModel(offer), nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := filterOffersParams{
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		Status:     params.Status,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.offerRepo.Filter(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	items := make([]OfferDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ListResult{Items: items, Cursor: cursor}, nil
}

// ListReceived returns every offer addressed to the given user, verifying the
// user exists first.
func (s *service) ListReceived(ctx context.Context, receiverID uuid.UUID) ([]OfferDTO, error) {
	if receiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receiver id required")
	}
	if _, err := s.userRepo.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve user")
	}

	rows, _, err := s.offerRepo.Filter(ctx, filterOffersParams{ReceiverID: &receiverID, Limit: pagination.MaxLimit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list received offers")
	}
	items := make([]OfferDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}
