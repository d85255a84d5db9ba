package getLecture

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"lectureRegistrar/internal/lib/api/response"
	"lectureRegistrar/internal/lib/logger/sl"
	"lectureRegistrar/internal/models"
	"lectureRegistrar/internal/storage"
	"log/slog"
	"net/http"
	"strconv"
)

type LectureInfo struct {
	Lecture      models.Lecture       `json:"lecture"`
	Applications []models.Application `json:"applications"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=LectureGetter
type LectureGetter interface {
	Lecture(ctx context.Context, id int64) (models.Lecture, []models.Application, error)
}

func New(log *slog.Logger, getter LectureGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lecture.getLecture.New"

		log := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			log.Error("invalid lecture id", slog.String("id", chi.URLParam(r, "id")))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.KindInvalidRequest, "invalid lecture id"))
			return
		}

		log = log.With(slog.Int64("lecture_id", id))

		lecture, apps, err := getter.Lecture(r.Context(), id)
		if errors.Is(err, storage.ErrLectureNotFound) {
			log.Info("lecture not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(response.KindLectureNotFound, "lecture not found"))
			return
		}
		if err != nil {
			log.Error("failed to get lecture", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.KindPersistenceFailure, "failed to get lecture"))
			return
		}

		log.Info("lecture retrieved", slog.Int("applications", len(apps)))

		responseOK(w, r, lecture, apps)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, lecture models.Lecture, apps []models.Application) {
	if apps == nil {
		apps = []models.Application{}
	}

	render.JSON(w, r, response.OK(LectureInfo{
		Lecture:      lecture,
		Applications: apps,
	}))
}
