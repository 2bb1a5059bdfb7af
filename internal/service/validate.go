package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AvailabilityInput окно доступности в том виде, в каком его прислал хост
type AvailabilityInput struct {
	ProgramID int64  `validate:"required,gt=0"`
	Date      string `validate:"required,len=10,datetime=2006-01-02"`
	Start     string `validate:"required,len=5,datetime=15:04"`
	End       string `validate:"required,len=5,datetime=15:04"`
}

// LimitsInput лимиты встреч; nil снимает ограничение
type LimitsInput struct {
	Daily   *int `validate:"omitempty,min=0"`
	Weekly  *int `validate:"omitempty,min=0"`
	Monthly *int `validate:"omitempty,min=0"`
}

type ProgramInput struct {
	GroupID          *int64
	Name             string `validate:"required,max=200"`
	Description      string `validate:"max=2000"`
	PhysicalLocation string `validate:"max=500"`
	MeetingURL       string `validate:"omitempty,url"`
	Duration         int    `validate:"min=0,max=480"`
	AutoApprove      bool
	IsDropIn         bool
	IsRangeBased     bool
	Limits           LimitsInput
}

// ProgramSettings изменяемые настройки программы, заменяются целиком
type ProgramSettings struct {
	Duration         int    `validate:"min=0,max=480"`
	AutoApprove      bool
	PhysicalLocation string `validate:"max=500"`
	MeetingURL       string `validate:"omitempty,url"`
	Limits           LimitsInput
}

type FeedbackInput struct {
	Rating int    `validate:"min=1,max=5"`
	Notes  string `validate:"max=2000"`
}

// validateStruct прогоняет теги validate и сводит ошибки к ErrValidation
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: invalid %s", ErrValidation, strings.Join(fields, ", "))
}
