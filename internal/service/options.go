package service

import (
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
)

// OverlapScope какие окна хоста сравниваются при проверке пересечений
type OverlapScope string

const (
	// OverlapByProgram окна того же хоста, программы и даты
	OverlapByProgram OverlapScope = "program"
	// OverlapByHost все окна хоста за дату
	OverlapByHost OverlapScope = "host"
)

// CancelPolicy что происходит со слотом после отмены брони
type CancelPolicy string

const (
	CancelRevert CancelPolicy = "revert"
	CancelDelete CancelPolicy = "delete"
)

type Policy struct {
	MinWindow    time.Duration
	OverlapScope OverlapScope
	CancelPolicy CancelPolicy
}

func DefaultPolicy() Policy {
	return Policy{
		MinWindow:    timewindow.DefaultMinWindow,
		OverlapScope: OverlapByProgram,
		CancelPolicy: CancelRevert,
	}
}
