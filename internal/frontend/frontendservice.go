package frontend

import (
	"html/template"
	"net/http"

	"github.com/jo-hoe/barcoderelay/internal/backend/resultstore"
	"github.com/jo-hoe/barcoderelay/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"

	pollIntervalMillis = 1000
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

type indexPage struct {
	Result             resultstore.ScanResult
	CooldownSeconds    float64
	PollIntervalMillis int
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler)
	e.GET("/"+MainPageName, service.indexHandler)
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, indexPage{
		Result:             service.coreService.LatestResult(),
		CooldownSeconds:    service.config.CooldownSeconds,
		PollIntervalMillis: pollIntervalMillis,
	})
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
