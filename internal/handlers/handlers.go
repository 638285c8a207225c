package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/repository"
	"github.com/modinver/recoverycashback-sub000/internal/service"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	db            *pgxpool.Pool
	cache         *redis.Client
	store         storage.BlobStore
	uploadService *service.UploadService
	assets        *repository.AssetRepository
	banks         *repository.BankRepository
	cards         *repository.CardRepository
	articles      *repository.ArticleRepository
	authors       *repository.AuthorRepository
	pages         *repository.PageRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store storage.BlobStore, cfg *config.AppConfig) HandlerSet {
	assetRepo := repository.NewAssetRepository(db)
	upload := service.NewUploadService(assetRepo, store, cfg, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		db:            db,
		cache:         cache,
		store:         store,
		uploadService: upload,
		assets:        assetRepo,
		banks:         repository.NewBankRepository(db),
		cards:         repository.NewCardRepository(db),
		articles:      repository.NewArticleRepository(db),
		authors:       repository.NewAuthorRepository(db),
		pages:         repository.NewPageRepository(db),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.POST("/upload", h.Upload)

	v1 := router.Group("/v1")
	{
		v1.GET("/banks", h.ListBanks)
		v1.GET("/banks/:slug", h.GetBank)
		v1.GET("/cards", h.ListCards)
		v1.GET("/cards/:slug", h.GetCard)
		v1.GET("/articles", h.ListArticles)
		v1.GET("/articles/:slug", h.GetArticle)
		v1.GET("/authors", h.ListAuthors)
		v1.GET("/authors/:slug", h.GetAuthor)
		v1.GET("/pages/:slug", h.GetPage)

		admin := v1.Group("/admin")
		{
			admin.GET("/assets", h.AdminListAssets)
			admin.DELETE("/assets/:id", h.AdminDeleteAsset)

			admin.POST("/banks", h.CreateBank)
			admin.PUT("/banks/:id", h.UpdateBank)
			admin.DELETE("/banks/:id", h.DeleteBank)

			admin.POST("/cards", h.CreateCard)
			admin.PUT("/cards/:id", h.UpdateCard)
			admin.DELETE("/cards/:id", h.DeleteCard)
			admin.PUT("/cards/:id/rates", h.ReplaceCardRates)

			admin.POST("/articles", h.CreateArticle)
			admin.PUT("/articles/:id", h.UpdateArticle)
			admin.DELETE("/articles/:id", h.DeleteArticle)

			admin.POST("/authors", h.CreateAuthor)
			admin.PUT("/authors/:id", h.UpdateAuthor)
			admin.DELETE("/authors/:id", h.DeleteAuthor)

			admin.GET("/pages", h.ListPages)
			admin.PUT("/pages/:slug", h.UpsertPage)
			admin.DELETE("/pages/:slug", h.DeletePage)
		}
	}
}

// pagination reads page/perPage query params with the admin table defaults.
func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
