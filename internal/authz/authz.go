// Package authz decides which admin roles may call which admin routes.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

const modelText = `
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

const anyMethod = "^(GET|POST|PUT|PATCH|DELETE)$"

// editorResources are content collections editors manage; super admins inherit them.
var editorResources = []string{"blogs", "jobs", "properties", "testimonials", "contacts"}

var superAdminResources = []string{"admins", "web-users"}

type Enforcer struct {
	e *casbin.Enforcer
}

// New builds an in-memory enforcer loaded with the default role policies.
func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	editor := string(domain.AdminRoleEditor)
	superAdmin := string(domain.AdminRoleSuperAdmin)

	policies := [][]string{
		{editor, "/api/v1/admin/me", "^GET$"},
	}
	for _, res := range editorResources {
		policies = append(policies,
			[]string{editor, "/api/v1/admin/" + res, anyMethod},
			[]string{editor, "/api/v1/admin/" + res + "/*", anyMethod},
		)
	}
	for _, res := range superAdminResources {
		policies = append(policies,
			[]string{superAdmin, "/api/v1/admin/" + res, anyMethod},
			[]string{superAdmin, "/api/v1/admin/" + res + "/*", anyMethod},
		)
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("add casbin policies: %w", err)
	}
	if _, err := e.AddGroupingPolicy(superAdmin, editor); err != nil {
		return nil, fmt.Errorf("add casbin role inheritance: %w", err)
	}
	return &Enforcer{e: e}, nil
}

// Allow reports whether role may call method on the route path.
func (a *Enforcer) Allow(role domain.AdminRole, path, method string) (bool, error) {
	return a.e.Enforce(string(role), path, method)
}
