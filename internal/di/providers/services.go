package providers

import (
	"github.com/samber/do/v2"

	"github.com/adventapp/advent-server/internal/auth"
	"github.com/adventapp/advent-server/internal/clock"
	"github.com/adventapp/advent-server/internal/logger"
	"github.com/adventapp/advent-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	clk := do.MustInvoke[clock.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, clk, log.Logger), nil
}

// ProvideCalendarService provides the calendar and entry service.
func ProvideCalendarService(i do.Injector) (*service.CalendarService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCalendarService(storeHandle.Store, log.Logger), nil
}

// ProvideDoorService provides the door gate service.
func ProvideDoorService(i do.Injector) (*service.DoorService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clk := do.MustInvoke[clock.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDoorService(storeHandle.Store, clk, log.Logger), nil
}
