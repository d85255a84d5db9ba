package hasApplied

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"lectureRegistrar/internal/lib/api/response"
	"lectureRegistrar/internal/lib/logger/sl"
	"log/slog"
	"net/http"
	"strconv"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ApplicationChecker
type ApplicationChecker interface {
	HasApplied(ctx context.Context, userID int64) (bool, error)
	HasAppliedTo(ctx context.Context, lectureID, userID int64) (bool, error)
}

func New(log *slog.Logger, checker ApplicationChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lecture.hasApplied.New"

		log := log.With(slog.String("op", op))

		userID, err := parseID(chi.URLParam(r, "userId"))
		if err != nil {
			log.Error("invalid user id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.KindInvalidRequest, "invalid user id"))
			return
		}

		log = log.With(slog.Int64("user_id", userID))

		var applied bool

		if raw := r.URL.Query().Get("lectureId"); raw != "" {
			lectureID, err := parseID(raw)
			if err != nil {
				log.Error("invalid lecture id", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(response.KindInvalidRequest, "invalid lecture id"))
				return
			}

			log = log.With(slog.Int64("lecture_id", lectureID))

			applied, err = checker.HasAppliedTo(r.Context(), lectureID, userID)
			if err != nil {
				log.Error("failed to check application", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.KindPersistenceFailure, "failed to check application"))
				return
			}
		} else {
			applied, err = checker.HasApplied(r.Context(), userID)
			if err != nil {
				log.Error("failed to check application", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.KindPersistenceFailure, "failed to check application"))
				return
			}
		}

		log.Info("application checked", slog.Bool("applied", applied))

		render.JSON(w, r, response.OK(applied))
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}

	return id, nil
}
