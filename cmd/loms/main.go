package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	api "github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/api/http"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/auth"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/config"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/db"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/enrollment"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := catalog.NewSQLStore(dbh)

	if err := bootstrapAdmin(ctx, store, cfg); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	syncer := enrollment.New(store)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, store))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Org records (student affairs)
		pr.With(rbac.Require("program:manage")).Get("/programs", api.ListProgramsHandler(store))
		pr.With(rbac.Require("program:manage")).Post("/programs", api.CreateProgramHandler(store))
		pr.With(rbac.Require("outcome:po-manage")).
			Get("/programs/{programID}/outcomes", api.ListProgramOutcomesHandler(store))
		pr.With(rbac.Require("outcome:po-manage")).
			Post("/programs/{programID}/outcomes", api.CreateProgramOutcomeHandler(store))
		pr.With(rbac.Require("outcome:po-manage")).
			Put("/program-outcomes/{poID}", api.UpdateProgramOutcomeHandler(store))
		pr.With(rbac.Require("outcome:po-manage")).
			Delete("/program-outcomes/{poID}", api.DeleteProgramOutcomeHandler(store))

		// Courses
		pr.With(rbac.Require("course:manage")).Post("/courses", api.CreateCourseHandler(store, syncer))
		pr.With(rbac.Require("course:manage")).Put("/courses/{courseID}", api.UpdateCourseHandler(store, syncer))
		pr.With(rbac.Require("course:manage")).Delete("/courses/{courseID}", api.DeleteCourseHandler(store))
		pr.With(rbac.Require("course:view")).Get("/courses", api.ListCoursesHandler(store))
		pr.With(rbac.Require("course:view")).Get("/courses/{courseID}", api.GetCourseHandler(store))
		pr.With(rbac.Require("assessment:manage")).Get("/my/courses", api.ListLecturerCoursesHandler(store))

		// Learning outcomes (lecturer, own course)
		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}/outcomes", api.ListLearningOutcomesHandler(store))
		pr.With(rbac.Require("outcome:lo-manage")).
			Post("/courses/{courseID}/outcomes", api.CreateLearningOutcomeHandler(store))
		pr.With(rbac.Require("outcome:lo-manage")).
			Put("/learning-outcomes/{loID}", api.UpdateLearningOutcomeHandler(store))
		pr.With(rbac.Require("outcome:lo-manage")).
			Delete("/learning-outcomes/{loID}", api.DeleteLearningOutcomeHandler(store))
		pr.With(rbac.Require("mapping:manage")).
			Get("/learning-outcomes/{loID}/po-mappings", api.ListPOMappingsHandler(store))
		pr.With(rbac.Require("mapping:manage")).
			Put("/learning-outcomes/{loID}/po-mappings", api.PutPOMappingsHandler(store))

		// Assessments (lecturer, own course)
		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}/assessments", api.ListAssessmentsHandler(store))
		pr.With(rbac.Require("assessment:manage")).
			Post("/courses/{courseID}/assessments", api.CreateAssessmentHandler(store))
		pr.With(rbac.Require("assessment:manage")).
			Put("/assessments/{assessmentID}", api.UpdateAssessmentHandler(store))
		pr.With(rbac.Require("assessment:manage")).
			Delete("/assessments/{assessmentID}", api.DeleteAssessmentHandler(store))
		pr.With(rbac.Require("mapping:manage")).
			Get("/assessments/{assessmentID}/lo-mappings", api.ListLOMappingsHandler(store))
		pr.With(rbac.Require("mapping:manage")).
			Put("/assessments/{assessmentID}/lo-mappings", api.PutLOMappingsHandler(store))

		// Grades
		pr.With(rbac.Require("result:manage")).
			Get("/assessments/{assessmentID}/results", api.ListResultsHandler(store))
		pr.With(rbac.Require("result:manage")).
			Put("/assessments/{assessmentID}/results", api.PutResultsHandler(store))
		pr.With(rbac.Require("result:manage")).
			Get("/courses/{courseID}/students", api.ListEnrolledStudentsHandler(store))

		// Attainment reports
		pr.With(rbac.Require("attainment:view-own")).
			Get("/courses/{courseID}/attainment", api.MyAttainmentHandler(store))
		pr.With(rbac.Require("attainment:view-all")).
			Get("/courses/{courseID}/students/{studentID}/attainment", api.StudentAttainmentHandler(store))

		// Accounts (student affairs)
		pr.With(rbac.Require("users:manage")).Get("/users", api.ListUsersHandler(store))
		pr.With(rbac.Require("users:manage")).Post("/users", api.CreateUserHandler(store, syncer))
		pr.With(rbac.Require("users:manage")).Put("/users/{userID}", api.UpdateUserHandler(store, syncer))
		pr.With(rbac.Require("users:manage")).Delete("/users/{userID}", api.DeleteUserHandler(store))
		pr.With(rbac.RequireAny("enrollment:view-own", "enrollment:view-all", "users:manage")).
			Get("/users/{userID}/enrollments", api.ListEnrollmentsHandler(store))
	})

	log.Printf("loms listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin seeds the configured admin account on an empty database so
// the first login can create everything else.
func bootstrapAdmin(ctx context.Context, store catalog.Store, cfg config.Config) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	return store.PutUser(ctx, catalog.User{
		ID:           uuid.NewString(),
		Username:     cfg.AdminUser,
		PasswordHash: cfg.AdminPassHash,
		Role:         catalog.RoleAdmin,
	})
}
