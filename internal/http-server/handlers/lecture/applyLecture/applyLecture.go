package applyLecture

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"lectureRegistrar/internal/lib/api/response"
	"lectureRegistrar/internal/lib/logger/sl"
	"lectureRegistrar/internal/storage"
	"log/slog"
	"net/http"
)

type ApplyRequest struct {
	LectureID int64 `json:"lectureId" validate:"required,gt=0"`
	UserID    int64 `json:"userId" validate:"required,gt=0"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=LectureApplier
type LectureApplier interface {
	ApplyLecture(ctx context.Context, lectureID, userID int64) error
}

func New(log *slog.Logger, applier LectureApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lecture.applyLecture.New"

		log := log.With(slog.String("op", op))

		var req ApplyRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.KindInvalidRequest, "failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		log = log.With(slog.Int64("lecture_id", req.LectureID), slog.Int64("user_id", req.UserID))

		err = applier.ApplyLecture(r.Context(), req.LectureID, req.UserID)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrLectureNotFound):
			log.Info("lecture not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(response.KindLectureNotFound, "lecture not found"))
			return
		case errors.Is(err, storage.ErrAlreadyApplied):
			log.Info("user already applied")
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error(response.KindAlreadyApplied, "user already applied for this lecture"))
			return
		case errors.Is(err, storage.ErrCapacityExceeded):
			log.Info("lecture is full")
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error(response.KindCapacityExceeded, "lecture capacity exceeded"))
			return
		default:
			log.Error("failed to apply lecture", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.KindPersistenceFailure, "failed to apply lecture"))
			return
		}

		log.Info("lecture applied successfully")

		responseOK(w, r)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK(nil))
}
