package controllers

import (
	"net/http"

	"github.com/alluringfresh/alluring-backend/api/responses"
	usersvc "github.com/alluringfresh/alluring-backend/internal/users"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/logger"
)

// AdminListCustomers returns one page of customer accounts.
func AdminListCustomers(repo *usersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if repo == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user repository unavailable"))
			return
		}

		cursor, limit, err := pageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		role := enums.RoleCustomer
		page, err := repo.List(ctx, usersvc.ListFilter{Role: &role}, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers"))
			return
		}
		responses.WriteSuccess(w, page)
	}
}
