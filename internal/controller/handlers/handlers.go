package handlers

import (
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/controller/state"
	"github.com/Freeeeeet/officehours_bot/internal/ratelimit"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"go.uber.org/zap"
)

// slotsHorizon на сколько дней вперёд показываются свободные слоты
const slotsHorizon = 14

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	svc          common.Services
	limiter      ratelimit.Limiter
	stateManager *state.Manager
	clock        timewindow.Clock
	inviteCode   string
	logger       *zap.Logger
}

// NewHandlers при пустом inviteCode стать хостом может любой пользователь
func NewHandlers(
	svc common.Services,
	limiter ratelimit.Limiter,
	stateManager *state.Manager,
	clock timewindow.Clock,
	inviteCode string,
	logger *zap.Logger,
) *Handlers {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	return &Handlers{
		svc:          svc,
		limiter:      limiter,
		stateManager: stateManager,
		clock:        clock,
		inviteCode:   inviteCode,
		logger:       logger,
	}
}

func (h *Handlers) today() time.Time {
	return timewindow.Today(h.clock)
}
