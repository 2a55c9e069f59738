package app

import (
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// rolePolicies is the whole permission table. ADMIN inherits everything
// USER may do.
var rolePolicies = [][]string{
	{constant.RoleUser, constant.PermOTPCodes, constant.PermActRead},
	{constant.RoleUser, constant.PermOTPCodes, constant.PermActWrite},
	{constant.RoleUser, constant.PermSelfIdentity, constant.PermActRead},
	{constant.RoleAdmin, constant.PermOTPConfig, constant.PermActRead},
	{constant.RoleAdmin, constant.PermOTPConfig, constant.PermActWrite},
	{constant.RoleAdmin, constant.PermAdminUsers, constant.PermActRead},
	{constant.RoleAdmin, constant.PermAdminUsers, constant.PermActDelete},
	{constant.RoleAdmin, constant.PermAuditEvents, constant.PermActRead},
}

var roleInheritance = [][]string{
	{constant.RoleAdmin, constant.RoleUser},
}

// newEnforcer builds an enforcer holding the fixed role table in memory.
func newEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(rolePolicies); err != nil {
		return nil, err
	}

	if _, err := e.AddGroupingPolicies(roleInheritance); err != nil {
		return nil, err
	}

	return e, nil
}
