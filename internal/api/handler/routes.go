package handler

import (
	"net/http"

	"github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam"
	"github.com/vfg2006/nicmap-api/internal/api/handler/router"
	"github.com/vfg2006/nicmap-api/internal/usecases/dealing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Deals(service dealing.DealService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/deals",
			Method:  http.MethodGet,
			Handler: ListDeals(service),
		},
		{
			Path:    "/v1/deals",
			Method:  http.MethodPost,
			Handler: CreateDeal(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodGet,
			Handler: GetDeal(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodDelete,
			Handler: DeleteDeal(service),
		},
		{
			Path:    "/v1/deals/:id/upvote",
			Method:  http.MethodPatch,
			Handler: UpvoteDeal(service),
		},
		{
			Path:    "/v1/deals/:id/report",
			Method:  http.MethodPatch,
			Handler: ReportDeal(service),
		},
	}
}

func Geocode(geocoder zippopotam.Geocoder) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/geocode/:zipCode",
			Method:  http.MethodGet,
			Handler: GeocodeZipCode(geocoder),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
