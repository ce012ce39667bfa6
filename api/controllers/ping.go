package controllers

import (
	"net/http"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "admin", "status": "ok"}
		if actor := middleware.ActorFromContext(r.Context()); actor.UserID != nil {
			payload["user_id"] = actor.UserID.String()
		}
		responses.WriteSuccess(w, payload)
	}
}
