package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/chaos156/elearning/internal/config"
	rtr "github.com/chaos156/elearning/internal/router"
)

func Routes(h *rtr.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Logger, // Log API Request Calls
	)

	router.Route("/", func(r chi.Router) {
		r.Mount("/", rtr.HealthRoutes())
	})

	router.Route("/v1", func(r chi.Router) {
		r.Mount("/users", h.UserRoutes())
		r.Mount("/courses", h.CourseRoutes())
		r.Mount("/enrollments", h.EnrollmentRoutes())
		r.Mount("/lessons", h.LessonRoutes())
		r.Mount("/availability", h.AvailabilityRoutes())
		r.Mount("/bookings", h.BookingRoutes())
		r.Mount("/dashboard", h.DashboardRoutes())
	})

	return router
}

func Start(h *rtr.Handler) {
	if config.Config == nil {
		log.Panic("missing or invalid configuration")
	}

	router := Routes(h)
	c := cors.New(cors.Options{
		AllowedOrigins:   config.Config.AllowedOrigins,
		AllowedHeaders:   []string{"Cookie", "Content-Type"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PATCH"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)
	log.Printf("Server is listening on port %v\n", config.Config.Port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", config.Config.Port), handler))
}
