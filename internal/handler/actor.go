package handler

import (
	"net/http"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/middleware"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

func actorFromRequest(r *http.Request) model.Actor {
	actor := model.Actor{IP: middleware.ClientIP(r)}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return actor
	}

	actor.UserID = claims.UserID
	actor.Email = claims.Email
	actor.Role = claims.Role

	return actor
}
