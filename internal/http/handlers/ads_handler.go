// Ad and catalog HTTP handlers.
//
// Endpoints:
//   - GET    /classes             (classification catalog)
//   - GET    /ads                 (feed, paginated, ETag support)
//   - GET    /ads/search?query=   (substring search, paginated)
//   - POST   /ads                 (create)
//   - GET    /ads/{id}            (ad, tags, and threads for the owner)
//   - PUT    /ads/{id}            (update text and replace tags)
//   - DELETE /ads/{id}            (remove with its threads)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/services"
	"github.com/tbourn/friend-app/internal/utils"
)

//
// DTOs
//

// CreateAdRequest is the JSON payload for posting an ad. Tags use the
// "title:value" form, e.g. "Hobby:Chess".
type CreateAdRequest struct {
	Title       string   `json:"title" binding:"required,max=50" example:"Chess partner wanted"`
	Description string   `json:"description" binding:"required,max=1000" example:"Weekly games in the park."`
	Age         int      `json:"age" binding:"required,min=1,max=999" example:"30"`
	Tags        []string `json:"tags" example:"Hobby:Chess"`
}

// UpdateAdRequest replaces title, description and the whole tag set. An empty
// or missing tags list clears all tags.
type UpdateAdRequest struct {
	Title       string   `json:"title" binding:"required,max=50" example:"Chess partner wanted"`
	Description string   `json:"description" binding:"required,max=1000" example:"Weekly games, any level."`
	Tags        []string `json:"tags" example:"Hobby:Chess"`
}

// ListAdsResponse is one page of ad summaries.
type ListAdsResponse struct {
	Ads        []domain.AdSummary `json:"ads"`
	Pagination utils.Page         `json:"pagination"`
}

// SearchAdsResponse is one page of search hits.
type SearchAdsResponse struct {
	Query      string             `json:"query"`
	Ads        []domain.AdSummary `json:"ads"`
	Pagination utils.Page         `json:"pagination"`
}

// AdResponse is a single ad with its tags. Threads is only present when the
// caller owns the ad.
type AdResponse struct {
	domain.AdDetail
	Tags    []domain.Tag            `json:"tags"`
	Threads []domain.ThreadOverview `json:"threads,omitempty"`
}

// ClassesResponse is the catalog in display order.
type ClassesResponse struct {
	Classes []domain.ClassGroup `json:"classes"`
}

// parseTags converts "title:value" strings into tags.
func parseTags(raw []string) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		t, err := services.ParseTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

//
// Handlers
//

// ListClasses godoc
// @ID          listClasses
// @Summary     List the classification catalog
// @Description Returns every class title with its permitted values, in catalog order.
// @Tags        Catalog
// @Produce     json
// @Success     200  {object}  handlers.ClassesResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /classes [get]
func (h *Handlers) ListClasses(c *gin.Context) {
	cat, err := h.catalog.AllClasses(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ClassesResponse{Classes: cat.Groups()})
}

// ListAds godoc
// @ID          listAds
// @Summary     Homepage feed
// @Description Returns ads newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Ads
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListAdsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads [get]
func (h *Handlers) ListAds(c *gin.Context) {
	ctx := c.Request.Context()
	page, size := pageParams(c)

	// ETag pre-check (best effort).
	if count, last, err := h.ads.FeedStats(ctx); err == nil {
		if notModified(c, weakETag("ads", count, unixOrZero(last), page, size)) {
			return
		}
	}

	all, err := h.ads.ListAll(ctx)
	if err != nil {
		failErr(c, err)
		return
	}
	items, meta := utils.Paginate(all, page, size)
	ok(c, http.StatusOK, ListAdsResponse{Ads: items, Pagination: meta})
}

// SearchAds godoc
// @ID          searchAds
// @Summary     Search ads
// @Description Case-insensitive substring match over title and description, newest first. A blank query returns no results.
// @Tags        Ads
// @Produce     json
// @Param       query      query  string  false  "Search text"  example(chess)
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.SearchAdsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads/search [get]
func (h *Handlers) SearchAds(c *gin.Context) {
	q := c.Query("query")
	page, size := pageParams(c)

	hits, err := h.ads.Search(c.Request.Context(), q)
	if err != nil {
		failErr(c, err)
		return
	}
	items, meta := utils.Paginate(hits, page, size)
	ok(c, http.StatusOK, SearchAdsResponse{Query: q, Ads: items, Pagination: meta})
}

// CreateAd godoc
// @ID          createAd
// @Summary     Post an ad
// @Description Creates an ad owned by the caller. Every tag must exist in the catalog.
// @Tags        Ads
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.CreateAdRequest  true  "Ad payload"
// @Success     201   {object}  domain.Ad
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request or unknown tag"
// @Failure     401   {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads [post]
func (h *Handlers) CreateAd(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title (1-50), description (1-1000) and age (1-999) are required")
		return
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		failErr(c, err)
		return
	}
	ad, err := h.ads.Add(c.Request.Context(), req.Title, req.Description, req.Age, callerID(c), tags)
	if err != nil {
		failErr(c, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+ad.ID)
	ok(c, http.StatusCreated, ad)
}

// GetAd godoc
// @ID          getAd
// @Summary     Get an ad
// @Description Returns the ad with its tags. When the caller owns the ad, its conversation threads are included.
// @Tags        Ads
// @Produce     json
// @Param       id   path      string  true  "Ad ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.AdResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Ad not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads/{id} [get]
func (h *Handlers) GetAd(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	ad, err := h.ads.Get(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	tags, err := h.ads.Tags(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	resp := AdResponse{AdDetail: *ad, Tags: tags}
	if uid := callerID(c); uid != "" && uid == ad.UserID {
		if resp.Threads, err = h.threads.ThreadsForAd(ctx, id); err != nil {
			failErr(c, err)
			return
		}
	}
	ok(c, http.StatusOK, resp)
}

// UpdateAd godoc
// @ID          updateAd
// @Summary     Update an ad
// @Description Replaces title, description and the complete tag set of an ad owned by the caller.
// @Tags        Ads
// @Accept      json
// @Security    BearerAuth
// @Param       id    path  string                    true  "Ad ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateAdRequest  true  "New content"
// @Success     204   {string}  string  "No Content"
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request or unknown tag"
// @Failure     401   {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403   {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404   {object}  handlers.ErrorResponse  "Ad not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads/{id} [put]
func (h *Handlers) UpdateAd(c *gin.Context) {
	var req UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title (1-50) and description (1-1000) are required")
		return
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		failErr(c, err)
		return
	}
	if err := h.ads.Update(c.Request.Context(), c.Param("id"), callerID(c), req.Title, req.Description, tags); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteAd godoc
// @ID          deleteAd
// @Summary     Remove an ad
// @Description Deletes an ad owned by the caller together with its tags, threads and thread messages.
// @Tags        Ads
// @Security    BearerAuth
// @Param       id   path  string  true  "Ad ID (UUID)"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Ad not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ads/{id} [delete]
func (h *Handlers) DeleteAd(c *gin.Context) {
	if err := h.ads.Remove(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
