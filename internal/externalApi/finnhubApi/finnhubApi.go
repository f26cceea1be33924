package finnhubApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/avelasco/portfolio-dashboard/config"
	"github.com/avelasco/portfolio-dashboard/internal/externalApi"
	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type FinnhubApi struct {
	client *resty.Client
	token  string
}

func New(cfg *config.Config) *FinnhubApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Finnhub.Url)
	return &FinnhubApi{client: client, token: cfg.API.Finnhub.Token}
}

// rawQuote mirrors the provider payload. Pointers distinguish a missing
// price field from a legitimate zero.
type rawQuote struct {
	CurrentPrice     *float64 `json:"c"`
	DayChange        *float64 `json:"d"`
	PercentChangeDay *float64 `json:"dp"`
}

func (a *FinnhubApi) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := "/api/v1/quote"
	params := map[string]string{
		"symbol": symbol,
		"token":  a.token,
	}

	slog.Debug("start FinnhubApi.GetQuote request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(url)

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("symbol", symbol))
		return model.Quote{}, err
	}

	if resp.IsError() {
		slog.Error("FinnhubApi returned non-success status", slog.String("status", resp.Status()), slog.String("rqID", rqID), slog.String("symbol", symbol))
		return model.Quote{}, fmt.Errorf("finnhub response status %s", resp.Status())
	}

	raw := rawQuote{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshall response into rawQuote", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("symbol", symbol))
		return model.Quote{}, err
	}

	if raw.CurrentPrice == nil {
		slog.Warn("no price field in FinnhubApi response", slog.String("rqID", rqID), slog.String("symbol", symbol))
		return model.Quote{}, externalApi.ErrNoPrice
	}

	quote := model.Quote{
		CurrentPrice: decimal.NewFromFloat(*raw.CurrentPrice),
	}
	if raw.DayChange != nil {
		quote.DayChange = decimal.NewFromFloat(*raw.DayChange)
	}
	if raw.PercentChangeDay != nil {
		quote.PercentChangeDay = decimal.NewFromFloat(*raw.PercentChangeDay)
	}

	slog.Debug("FinnhubApi.GetQuote request complete", slog.String("rqID", rqID), slog.String("symbol", symbol))

	return quote, nil
}
