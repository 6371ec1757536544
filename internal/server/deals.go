package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/contextx"
	"at_deals/pkg/errcodes"
	"at_deals/pkg/httpx/reply"
	"at_deals/pkg/httpx/req"
	"at_deals/pkg/logx"
	"at_deals/pkg/lox"
	"at_deals/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultPageSize = 20
)

type dealService interface {
	List(ctx context.Context, filter entity.DealFilter) ([]*entity.Deal, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Deal, error)
	Categories(ctx context.Context) ([]entity.CategoryCount, error)
}

// DealServer serves stored deals. Store failures are logged and answered with
// an empty 200 body so the frontend keeps rendering.
type DealServer struct {
	deals dealService
}

func NewDealServer(deals dealService) DealServer {
	lo.Must0(req.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := value.ParseCategory(fl.Field().String())
		return ok
	}))

	return DealServer{
		deals: deals,
	}
}

type listQuery struct {
	Page     int    `validate:"min=1,max=100000"`
	PageSize int    `validate:"min=1,max=100"`
	Category string `validate:"omitempty,category"`
	Merchant string `validate:"max=100"`
	Query    string `validate:"max=200"`
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	q, err := parseListQuery(r)
	if err != nil {
		return err
	}

	if err := req.Validate(ctx, &q); err != nil {
		return fmt.Errorf("req.Validate: %w", err)
	}

	filter := newDealFilter(q)
	resp := rest.DealList{
		Deals:      []rest.Deal{},
		Pagination: newRESTPagination(q.Page, q.PageSize, 0),
		Filters:    rest.Filters{Category: q.Category, Merchant: q.Merchant, Query: q.Query},
	}

	deals, total, err := s.deals.List(ctx, filter)
	if err != nil {
		logger(ctx).Error("deals.List failed, serving empty page", logx.Error(err))
		reply.JSON(ctx, w, http.StatusOK, resp)
		return nil
	}

	resp.Deals = lox.Map(deals, newRESTDeal)
	resp.Pagination = newRESTPagination(q.Page, q.PageSize, total)

	reply.JSON(ctx, w, http.StatusOK, resp)

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return req.InvalidArgument(errcodes.InvalidDealID, "deal id must be a positive integer")
	}

	deal, err := s.deals.GetByID(ctx, id)
	switch {
	case domain.HasCode(err, errcodes.DealNotFound):
		reply.NotFound(ctx, w, errcodes.DealNotFound, "deal not found")
		return nil
	case err != nil:
		logger(ctx).Error("deals.GetByID failed, serving empty deal", logx.Error(err))
		reply.JSON(ctx, w, http.StatusOK, rest.DealDetail{})
		return nil
	}

	restDeal := newRESTDeal(deal)
	reply.JSON(ctx, w, http.StatusOK, rest.DealDetail{Deal: &restDeal})

	return nil
}

func (s DealServer) getV1Categories(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	resp := rest.CategoryList{Categories: []rest.Category{}}

	counts, err := s.deals.Categories(ctx)
	if err != nil {
		logger(ctx).Error("deals.Categories failed, serving empty list", logx.Error(err))
		reply.JSON(ctx, w, http.StatusOK, resp)
		return nil
	}

	resp.Categories = lox.Map(counts, newRESTCategory)

	reply.JSON(ctx, w, http.StatusOK, resp)

	return nil
}

func parseListQuery(r *http.Request) (listQuery, error) {
	values := r.URL.Query()

	page, err := req.QueryInt(values, "page", 1)
	if err != nil {
		return listQuery{}, req.InvalidArgument(errcodes.InvalidPaging, err.Error())
	}

	pageSize, err := req.QueryInt(values, "pageSize", defaultPageSize)
	if err != nil {
		return listQuery{}, req.InvalidArgument(errcodes.InvalidPaging, err.Error())
	}

	return listQuery{
		Page:     page,
		PageSize: pageSize,
		Category: values.Get("category"),
		Merchant: values.Get("merchant"),
		Query:    values.Get("q"),
	}, nil
}
