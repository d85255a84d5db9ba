package listLectures

import (
	"context"
	"github.com/go-chi/render"
	"lectureRegistrar/internal/lib/api/response"
	"lectureRegistrar/internal/lib/logger/sl"
	"lectureRegistrar/internal/models"
	"log/slog"
	"net/http"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=LecturesGetter
type LecturesGetter interface {
	ListLectures(ctx context.Context) ([]models.Lecture, error)
}

func New(log *slog.Logger, lecturesGetter LecturesGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lecture.listLectures.New"

		log := log.With(slog.String("op", op))

		lectures, err := lecturesGetter.ListLectures(r.Context())
		if err != nil {
			log.Error("failed to get lectures", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.KindPersistenceFailure, "failed to get lectures"))
			return
		}

		log.Info("lectures retrieved successfully", slog.Int("count", len(lectures)))

		responseOK(w, r, lectures)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, lectures []models.Lecture) {
	if lectures == nil {
		lectures = []models.Lecture{}
	}

	render.JSON(w, r, response.OK(lectures))
}
