package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/api/responses"
	"github.com/osgiliath-dev/tradepost/internal/inventory"
	"github.com/osgiliath-dev/tradepost/internal/users"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
	"github.com/osgiliath-dev/tradepost/pkg/logger"
)

// userInventoryView groups one user's holdings for the platform-wide listing.
type userInventoryView struct {
	UserID    uuid.UUID           `json:"user_id"`
	Username  string              `json:"username"`
	Inventory []inventory.ItemDTO `json:"inventory"`
}

// InventoryAll returns every user's holdings, grouped per user. Users with an
// empty ledger appear with an empty inventory list.
func InventoryAll(usersSvc users.Service, invSvc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if usersSvc == nil || invSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		allUsers, err := usersSvc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := invSvc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		byOwner := make(map[uuid.UUID][]inventory.ItemDTO, len(allUsers))
		for i := range rows {
			byOwner[rows[i].UserID] = append(byOwner[rows[i].UserID], *inventory.FromModel(&rows[i]))
		}

		views := make([]userInventoryView, 0, len(allUsers))
		for _, u := range allUsers {
			items := byOwner[u.ID]
			if items == nil {
				items = []inventory.ItemDTO{}
			}
			views = append(views, userInventoryView{
				UserID:    u.ID,
				Username:  u.Username,
				Inventory: items,
			})
		}

		responses.WriteSuccess(w, views)
	}
}
