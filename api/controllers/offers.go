package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/api/responses"
	"github.com/osgiliath-dev/tradepost/api/validators"
	"github.com/osgiliath-dev/tradepost/internal/offers"
	"github.com/osgiliath-dev/tradepost/internal/users"
	dbtypes "github.com/osgiliath-dev/tradepost/pkg/db/types"
	"github.com/osgiliath-dev/tradepost/pkg/enums"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
	"github.com/osgiliath-dev/tradepost/pkg/logger"
	"github.com/osgiliath-dev/tradepost/pkg/pagination"
)

type proposeOfferRequest struct {
	SenderID      uuid.UUID      `json:"sender_id" validate:"required"`
	ReceiverID    uuid.UUID      `json:"receiver_id" validate:"required"`
	SenderItems   map[string]int `json:"sender_items" validate:"required,min=1"`
	ReceiverItems map[string]int `json:"receiver_items" validate:"required,min=1"`
}

// OfferPropose creates a pending offer after feasibility checks.
func OfferPropose(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		var payload proposeOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Propose(r.Context(), offers.ProposeParams{
			SenderID:      payload.SenderID,
			ReceiverID:    payload.ReceiverID,
			SenderItems:   dbtypes.ItemMap(payload.SenderItems),
			ReceiverItems: dbtypes.ItemMap(payload.ReceiverItems),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOfferID(ctx, offer.ID.String())
			logg.Info(ctx, "offer.proposed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// OfferList returns offers filtered by sender, receiver, and status, with
// cursor pagination.
func OfferList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		params := offers.ListParams{
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		senderID, err := validators.ParseQueryUUID(r, "sender_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.SenderID = senderID

		receiverID, err := validators.ParseQueryUUID(r, "receiver_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.ReceiverID = receiverID

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseOfferStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OfferGet returns one offer by id.
func OfferGet(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, offer)
	}
}

type respondOfferRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	Response string    `json:"response" validate:"required"`
}

// OfferRespond resolves a pending offer. The responding user must exist and
// be the offer's receiver; acceptance swaps inventories atomically.
func OfferRespond(usersSvc users.Service, offersSvc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if usersSvc == nil || offersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		offerID, err := validators.ParsePathUUID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload respondOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Unknown responders get a 404 before any offer checks run.
		if _, err := usersSvc.Get(r.Context(), payload.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := offersSvc.Respond(r.Context(), offerID, payload.UserID, payload.Response)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOfferID(ctx, offer.ID.String())
			ctx = logg.WithFields(ctx, map[string]any{"status": string(offer.Status)})
			logg.Info(ctx, "offer.resolved")
		}

		responses.WriteSuccess(w, offer)
	}
}
