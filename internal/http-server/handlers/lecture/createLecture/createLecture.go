package createLecture

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"lectureRegistrar/internal/lib/api/response"
	"lectureRegistrar/internal/lib/logger/sl"
	"lectureRegistrar/internal/registrar"
	"log/slog"
	"net/http"
	"time"
)

// LectureRequest omits capacity to get the registrar's default.
type LectureRequest struct {
	Title    string    `json:"title" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
	Capacity int       `json:"capacity" validate:"gte=0"`
}

type LectureCreated struct {
	LectureID int64 `json:"lectureId"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=LectureCreator
type LectureCreator interface {
	CreateLecture(ctx context.Context, title string, date time.Time, capacity int) (int64, error)
}

func New(log *slog.Logger, creator LectureCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lecture.createLecture.New"

		log := log.With(slog.String("op", op))

		var req LectureRequest

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

		id, err := creator.CreateLecture(r.Context(), req.Title, req.Date, req.Capacity)
		if errors.Is(err, registrar.ErrInvalidLecture) {
			log.Info("lecture rejected", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.KindInvalidRequest, "invalid lecture"))
			return
		}
		if err != nil {
			log.Error("failed to add lecture", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.KindPersistenceFailure, "failed to add lecture"))
			return
		}

		log.Info("lecture added", slog.Int64("id", id))

		responseOK(w, r, id)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, id int64) {
	render.JSON(w, r, response.OK(LectureCreated{LectureID: id}))
}
