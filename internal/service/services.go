package service

import (
	"SimpleMOOC/internal/service/auth"
	"SimpleMOOC/internal/service/course/access"
	"SimpleMOOC/internal/service/course/board"
	"SimpleMOOC/internal/service/course/catalog"
	"SimpleMOOC/internal/service/course/enrollment"
	"SimpleMOOC/internal/service/course/management"
)

type Collection struct {
	*auth.AuthService
	*catalog.CatalogService
	*management.ManagementService
	*enrollment.EnrollmentService
	*board.BoardService
	*access.Gate
}
