package rbac

// Role→permission policy. Roles mirror the account types of the system:
// students read their own attainment, lecturers author assessments and
// grades for their own courses, student affairs owns the org-level records
// and user accounts, admin can do everything.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"attainment:view-own",
		"enrollment:view-own",
	},
	"lecturer": {
		"course:view",
		"assessment:manage",
		"mapping:manage",
		"result:manage",
		"outcome:lo-manage",
		"attainment:view-all",
	},
	"student_affairs": {
		"course:view",
		"course:manage",
		"program:manage",
		"outcome:po-manage",
		"users:manage",
		"enrollment:view-all",
	},
	"admin": {
		"*", // everything
	},
}
