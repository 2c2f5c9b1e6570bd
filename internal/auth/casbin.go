package auth

import (
	"log"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	appmodel "imageshare.com/internal/model"
)

// InitCasbin defines the RBAC model and initializes the enforcer with GORM adapter
func InitCasbin(db *gorm.DB) (*casbin.Enforcer, error) {
	// 1. Initialize GORM adapter (creates casbin_rule table)
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	// 2. Define RBAC Model in string format
	// r = request (who, what, how)
	// p = policy (who, what, how)
	// g = grouping (role hierarchy)
	// m = matcher (how to match request to policy)
	text := `
		[request_definition]
		r = sub, obj, act

		[policy_definition]
		p = sub, obj, act

		[role_definition]
		g = _, _

		[policy_effect]
		e = some(where (p.eft == allow))

		[matchers]
		m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
	`
	// keyMatch2 supports URL parameters like /api/images/:id

	m, err := model.NewModelFromString(text)
	if err != nil {
		return nil, err
	}

	// 3. Create Enforcer
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	// 4. Load policy from database
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	// 5. Initialize default policies if empty
	policies, _ := enforcer.GetPolicy()
	if len(policies) == 0 {
		log.Println("Casbin: No policies found, seeding role policies...")
		if err := seedPolicies(enforcer); err != nil {
			log.Printf("Failed to seed policies: %v", err)
		} else if err := enforcer.SavePolicy(); err != nil {
			log.Printf("Failed to save seeded policies: %v", err)
		} else {
			log.Println("Casbin: Role policies initialized.")
		}
	}

	log.Println("Casbin initialized successfully")
	return enforcer, nil
}

// seedPolicies installs the route permissions per role. Admin and approver
// inherit the ordinary user permissions (upload, browse, own-image edits);
// the ownership check on those happens in the service layer, not here.
func seedPolicies(enforcer *casbin.Enforcer) error {
	anyMethod := "(GET)|(POST)|(PUT)|(DELETE)"

	policies := [][]string{
		// Every authenticated role
		{appmodel.RoleUser, "/api/auth/me", "GET"},
		{appmodel.RoleUser, "/api/auth/logout", "POST"},
		{appmodel.RoleUser, "/api/auth/password", "PUT"},
		{appmodel.RoleUser, "/api/images", "POST"},
		{appmodel.RoleUser, "/api/images/:id", anyMethod},
		{appmodel.RoleUser, "/api/images/:id/file", "GET"},
		{appmodel.RoleUser, "/api/listings", "GET"},
		{appmodel.RoleUser, "/api/listings/tags/:tagID", "GET"},
		{appmodel.RoleUser, "/api/listings/users/:userID", "GET"},
		{appmodel.RoleUser, "/api/tags", "GET"},

		// Approver-only surface
		{appmodel.RoleApprover, "/api/images/:id/approval", "PUT"},
		{appmodel.RoleApprover, "/api/moderation/pending", "GET"},

		// Admin-only surface
		{appmodel.RoleAdmin, "/api/users", "GET"},
		{appmodel.RoleAdmin, "/api/users/:id/active", "PUT"},
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	// Role hierarchy: admins and approvers keep ordinary user access
	groupings := [][]string{
		{appmodel.RoleAdmin, appmodel.RoleUser},
		{appmodel.RoleApprover, appmodel.RoleUser},
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}

	return nil
}
