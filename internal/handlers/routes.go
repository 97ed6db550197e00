package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Routes groups the handlers mounted under the API prefix. Nil handlers are not mounted.
type Routes struct {
	Upload  *UploadHandler
	Profile *ProfileHandler
	Ranking *RankingHandler
	Pathway *PathwayHandler
	Search  *SearchHandler
}

func (r Routes) Register(api fiber.Router) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	if r.Upload != nil {
		api.Post("/upload", r.Upload.HandleUpload)
	}
	if r.Profile != nil {
		api.Post("/profiles/synthesize", r.Profile.HandleSynthesize)
	}
	if r.Ranking != nil {
		api.Post("/rankings", r.Ranking.HandleCreate)
		api.Post("/rankings/preview", r.Ranking.HandlePreview)
		api.Get("/rankings/:id", r.Ranking.HandleGet)
		api.Get("/rankings/:id/export", r.Ranking.HandleExport)
	}
	if r.Pathway != nil {
		api.Post("/pathways", r.Pathway.HandleGenerate)
		api.Post("/pathways/parse", r.Pathway.HandleParse)
	}
	if r.Search != nil {
		api.Post("/candidates/search", r.Search.HandleSearch)
	}
}

// Endpoints lists the mounted routes for the index page.
func (r Routes) Endpoints() []string {
	out := []string{"GET /api/v1/health"}
	if r.Upload != nil {
		out = append(out, "POST /api/v1/upload")
	}
	if r.Profile != nil {
		out = append(out, "POST /api/v1/profiles/synthesize")
	}
	if r.Ranking != nil {
		out = append(out,
			"POST /api/v1/rankings",
			"POST /api/v1/rankings/preview",
			"GET /api/v1/rankings/:id",
			"GET /api/v1/rankings/:id/export",
		)
	}
	if r.Pathway != nil {
		out = append(out, "POST /api/v1/pathways", "POST /api/v1/pathways/parse")
	}
	if r.Search != nil {
		out = append(out, "POST /api/v1/candidates/search")
	}
	return out
}
