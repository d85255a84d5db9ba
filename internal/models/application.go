package models

import "time"

// Application is one successful enrollment of a user into a lecture.
type Application struct {
	ID        int64     `json:"id"`
	LectureID int64     `json:"lectureId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
