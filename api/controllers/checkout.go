package controllers

import (
	"net/http"

	"github.com/alluringfresh/alluring-backend/api/responses"
	"github.com/alluringfresh/alluring-backend/api/validators"
	checkoutsvc "github.com/alluringfresh/alluring-backend/internal/checkout"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/logger"
)

// Checkout places an order from the caller's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutsvc.PlaceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(ctx, userID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
