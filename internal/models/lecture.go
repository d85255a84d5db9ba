package models

import "time"

type Lecture struct {
	ID       int64     `json:"lectureId"`
	Title    string    `json:"title"`
	Capacity int       `json:"capacity"`
	Date     time.Time `json:"date"`
}
