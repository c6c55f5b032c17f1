package api

import (
	"errors"
	"net/http"
	"time"

	models "StockHistory/internal/domain/models"
	"StockHistory/internal/export"
	apimetrics "StockHistory/internal/service/metrics"
	"StockHistory/internal/usecase"
	xhttp "StockHistory/pkg/http"
	xlogger "StockHistory/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler serves symbol search, history and CSV export.
type MarketEchoHandler struct {
	logger  *xlogger.Logger
	symbols *usecase.SymbolsUseCase
	history *usecase.HistoryUseCase
}

func NewMarketEchoHandler(logger *xlogger.Logger, symbols *usecase.SymbolsUseCase, history *usecase.HistoryUseCase) *MarketEchoHandler {
	apimetrics.Register()
	return &MarketEchoHandler{logger: logger, symbols: symbols, history: history}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/activos", h.Search)
	g.POST("/historico", h.History)
	g.POST("/historico/csv", h.HistoryCSV)
}

// Search handles GET /api/activos?query=.
func (h *MarketEchoHandler) Search(c echo.Context) error {
	const endpoint = "activos"
	defer apimetrics.Observe(endpoint, time.Now())

	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.Fail(endpoint, "validation")
		return xhttp.ValidationErrorResponse(c, verr)
	}

	res, err := h.symbols.SearchSymbols(c.Request().Context(), req.Query)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// History handles POST /api/historico.
func (h *MarketEchoHandler) History(c echo.Context) error {
	const endpoint = "historico"
	defer apimetrics.Observe(endpoint, time.Now())

	bars, _, err := h.loadHistory(c, endpoint)
	if err != nil || bars == nil {
		return err
	}
	return xhttp.SuccessResponse(c, bars)
}

// HistoryCSV handles POST /api/historico/csv. No bars means no file: 204.
func (h *MarketEchoHandler) HistoryCSV(c echo.Context) error {
	const endpoint = "historico_csv"
	defer apimetrics.Observe(endpoint, time.Now())

	bars, req, err := h.loadHistory(c, endpoint)
	if err != nil || bars == nil {
		return err
	}
	if len(bars) == 0 {
		return xhttp.NoContentResponse(c)
	}
	name := export.FileName(req.Symbol, req.FromDate, req.ToDate)
	return xhttp.AttachmentResponse(c, name, export.ContentType, []byte(export.Render(bars)))
}

// loadHistory binds, validates and runs GetHistory. A nil slice with a nil error
// means the error response has already been written.
func (h *MarketEchoHandler) loadHistory(c echo.Context, endpoint string) ([]models.Bar, *models.HistoryRequest, error) {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.Fail(endpoint, "validation")
		return nil, req, xhttp.ValidationErrorResponse(c, verr)
	}

	bars, err := h.history.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		Symbol:   req.Symbol,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		return nil, req, h.fail(c, endpoint, err)
	}
	return bars, req, nil
}

func (h *MarketEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	switch appErr.Status {
	case http.StatusBadRequest:
		apimetrics.Fail(endpoint, "validation")
	case http.StatusBadGateway:
		apimetrics.Fail(endpoint, "provider")
		h.logger.Warn(endpoint+" provider error", xlogger.Error(err))
	default:
		apimetrics.Fail(endpoint, "internal")
		h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(err error) *xhttp.AppError {
	var fe *usecase.FieldError
	if errors.As(err, &fe) {
		return xhttp.BadRequestError(fe.Message).WithField(fe.Field).WithError(err)
	}
	if errors.Is(err, usecase.ErrProvider) {
		return xhttp.BadGatewayError(err.Error()).WithError(err)
	}
	return xhttp.InternalError("Something went wrong").WithError(err)
}
