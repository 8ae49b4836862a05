package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katydid-vehicle-market/internal/store"
	"katydid-vehicle-market/pkg/assembler"
	"katydid-vehicle-market/pkg/idgen"
	"katydid-vehicle-market/pkg/validator"
)

// CreateUserRequest 注册请求
type CreateUserRequest struct {
	User    validator.Draft `json:"user"`
	Address validator.Draft `json:"address"`
}

// CreateUserResponse 注册结果
type CreateUserResponse struct {
	User  *store.User `json:"user"`
	Token string      `json:"token"`
}

// ValidateRequest 单字段校验请求
type ValidateRequest struct {
	Value any `json:"value"`
}

// ValidateResponse 单字段校验结果
type ValidateResponse struct {
	Kind    string             `json:"kind"`
	Valid   bool               `json:"valid"`
	Value   any                `json:"value,omitempty"`
	Reasons []validator.Reason `json:"reasons,omitempty"`
}

// ListAdsResponse 广告列表
type ListAdsResponse struct {
	Items  []store.Advertisement `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// decode 解码请求体，数字保留为 json.Number 交给字段规则处理
func decode(c *gin.Context, dst any) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		abort(c, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := idgen.ParseID(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return id.Int64(), true
}

// healthz godoc
// @Summary  健康检查
// @Tags     system
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  ErrorResponse
// @Router   /healthz [get]
func (s *Server) healthz(c *gin.Context) {
	if err := s.repo.Ping(c.Request.Context()); err != nil {
		s.log.Warn("database ping failed", zap.Error(err))
		abort(c, http.StatusServiceUnavailable, "unavailable", "database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createUser godoc
// @Summary  注册用户（含地址）
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      CreateUserRequest  true  "user and address drafts"
// @Success  201   {object}  CreateUserResponse
// @Failure  409   {object}  ErrorResponse
// @Failure  422   {object}  ErrorResponse
// @Router   /api/v1/users [post]
func (s *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	if !decode(c, &req) {
		return
	}

	userOut := assembler.AssembleUser(req.User)
	addrOut := assembler.AssembleAddress(req.Address)
	if !userOut.IsValid() || !addrOut.IsValid() {
		report := validator.NewReport(assembler.EntityUser)
		report.Merge("", userOut.Report())
		report.Merge(assembler.EntityAddress+".", addrOut.Report())
		invalid(c, report)
		return
	}

	user, err := s.repo.CreateUser(c.Request.Context(), userOut.Value(), addrOut.Value())
	if err != nil {
		fail(c, err)
		return
	}
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateUserResponse{User: user, Token: tok})
}

// getUser godoc
// @Summary   用户详情（含地址），只能查看自己
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "user id"
// @Success   200  {object}  store.User
// @Failure   401  {object}  ErrorResponse
// @Failure   403  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /api/v1/users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if id != currentUser(c) {
		abort(c, http.StatusForbidden, "forbidden", "users may only view their own profile")
		return
	}
	user, err := s.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// validateField godoc
// @Summary  按字段类别校验单个值
// @Tags     validation
// @Accept   json
// @Produce  json
// @Param    kind  path      string           true  "field kind, e.g. email"
// @Param    body  body      ValidateRequest  true  "raw value"
// @Success  200   {object}  ValidateResponse
// @Failure  404   {object}  ErrorResponse
// @Router   /api/v1/validate/{kind} [post]
func (s *Server) validateField(c *gin.Context) {
	kind, ok := validator.ParseFieldKind(c.Param("kind"))
	if !ok {
		abort(c, http.StatusNotFound, "unknown_kind", "unknown field kind "+strconv.Quote(c.Param("kind")))
		return
	}
	var req ValidateRequest
	if !decode(c, &req) {
		return
	}

	out := validator.Validate(kind, req.Value)
	resp := ValidateResponse{Kind: kind.String(), Valid: out.IsValid(), Reasons: out.Reasons()}
	if out.IsValid() {
		resp.Value = out.Value()
	}
	c.JSON(http.StatusOK, resp)
}

// listCategories godoc
// @Summary  车辆类别
// @Tags     vehicles
// @Produce  json
// @Success  200  {array}  store.Category
// @Router   /api/v1/categories [get]
func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.repo.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// createAd godoc
// @Summary   发布广告，user_id 取自令牌
// @Tags      ads
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      map[string]any  true  "vehicle ad draft"
// @Success   201   {object}  store.Advertisement
// @Failure   401   {object}  ErrorResponse
// @Failure   409   {object}  ErrorResponse
// @Failure   422   {object}  ErrorResponse
// @Router    /api/v1/ads [post]
func (s *Server) createAd(c *gin.Context) {
	var draft validator.Draft
	if !decode(c, &draft) {
		return
	}
	if draft == nil {
		draft = validator.Draft{}
	}
	draft[assembler.FieldUserID] = currentUser(c)

	ad, err := assembler.AssembleVehicleAd(draft).Unwrap()
	if err != nil {
		fail(c, err)
		return
	}
	created, err := s.repo.CreateAdvertisement(c.Request.Context(), ad)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// getAd godoc
// @Summary   广告详情，已下架、成交或隐藏的广告只有卖家可见
// @Tags      ads
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "advertisement id"
// @Success   200  {object}  store.Advertisement
// @Failure   401  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /api/v1/ads/{id} [get]
func (s *Server) getAd(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	ad, hit, err := s.ads.Get(ctx, id)
	if err != nil {
		s.log.Warn("ad cache read failed", zap.Int64("ad_id", id), zap.Error(err))
	}
	if !hit {
		ad, err = s.repo.GetAdvertisement(ctx, id)
		if err != nil {
			fail(c, err)
			return
		}
		if err := s.ads.Set(ctx, ad); err != nil {
			s.log.Warn("ad cache write failed", zap.Int64("ad_id", id), zap.Error(err))
		}
	}

	if !ad.Status.CanList() && ad.UserID != currentUser(c) {
		abort(c, http.StatusNotFound, "not_found", "advertisement not found")
		return
	}
	c.JSON(http.StatusOK, ad)
}

// listAds godoc
// @Summary  在售广告列表，新发布的在前
// @Tags     ads
// @Produce  json
// @Param    limit   query     int  false  "page size (max 100)"
// @Param    offset  query     int  false  "offset"
// @Success  200     {object}  ListAdsResponse
// @Router   /api/v1/ads [get]
func (s *Server) listAds(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(store.DefaultPageSize)))
	if err != nil {
		abort(c, http.StatusBadRequest, "bad_request", "limit must be an integer")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		abort(c, http.StatusBadRequest, "bad_request", "offset must be an integer")
		return
	}

	ads, err := s.repo.ListAdvertisements(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	if ads == nil {
		ads = []store.Advertisement{}
	}
	c.JSON(http.StatusOK, ListAdsResponse{Items: ads, Limit: limit, Offset: offset})
}

// recordSale godoc
// @Summary   以当前用户为买家成交
// @Tags      ads
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "advertisement id"
// @Success   201  {object}  store.SalesRecord
// @Failure   401  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Failure   409  {object}  ErrorResponse
// @Failure   422  {object}  ErrorResponse
// @Router    /api/v1/ads/{id}/sale [post]
func (s *Server) recordSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	ad, err := s.repo.GetAdvertisement(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	sale, err := assembler.AssembleSale(validator.Draft{
		assembler.FieldSellerID: ad.UserID,
		assembler.FieldBuyerID:  currentUser(c),
		assembler.FieldAdID:     ad.ID,
	}).Unwrap()
	if err != nil {
		fail(c, err)
		return
	}

	record, err := s.repo.RecordSale(ctx, sale)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.ads.Invalidate(ctx, id); err != nil {
		s.log.Warn("ad cache invalidate failed", zap.Int64("ad_id", id), zap.Error(err))
	}
	c.JSON(http.StatusCreated, record)
}
