package utils

import (
	"log"
	"time"
)

// GetISTLocation returns the Asia/Kolkata time location.
func GetISTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

// TimeNowIST returns the current time in IST.
func TimeNowIST() time.Time {
	return time.Now().In(GetISTLocation())
}
