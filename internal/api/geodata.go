package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/homeproxy-status/internal/api/models"
)

func (s *Server) registerGeoDataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-geodata-version",
		Method:      http.MethodGet,
		Path:        "/api/geodata/version",
		Summary:     "GeoData Version",
		Description: "Run the updater's get_version. Failures are reported in the body and as a notification.",
		Tags:        []string{"geodata"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, _ *struct{}) (*models.GeoDataVersionResponse, error) {
		field := s.view.FetchVersion(ctx).Wait(ctx)
		return &models.GeoDataVersionResponse{
			Body: models.GeoDataVersionData{
				Version: field.Version,
				Failed:  field.Failed,
				Display: field.Text(),
				Notice:  field.Notice,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-geodata",
		Method:      http.MethodPost,
		Path:        "/api/geodata/update",
		Summary:     "Update GeoData",
		Description: "Run the updater's update_version. The page must be re-rendered afterwards whatever the result, with ?update=<id>.",
		Tags:        []string{"geodata"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct {
		Previous string `query:"previous" doc:"ID of the outcome currently shown; its description is kept for unrecognized exit codes"`
	}) (*models.GeoDataUpdateResponse, error) {
		return &models.GeoDataUpdateResponse{Body: s.view.UpdateGeoData(ctx, input.Previous)}, nil
	})
}
