package qdrant

import (
	"testing"

	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6334, cfg.Port)
	assert.Equal(t, DefaultCollection, cfg.Collection)
	assert.Equal(t, uint64(DefaultVectorSize), cfg.VectorSize)
}

func TestScopeConditionTenantAlwaysRequired(t *testing.T) {
	filters := []core.ScopeFilter{
		{TenantID: "tenant-a"},
		{TenantID: "tenant-a", CompanyID: "company-1"},
		{TenantID: "tenant-a", CompanyID: "company-1", IncludeShared: true},
	}
	for _, f := range filters {
		compiled := scopeCondition(f)
		require.NotEmpty(t, compiled.Must)
		match := compiled.Must[0].GetField()
		require.NotNil(t, match)
		assert.Equal(t, "tenant_id", match.Key)
		assert.Equal(t, "tenant-a", match.GetMatch().GetKeyword())
	}
}

func TestScopeConditionHorizontalOnly(t *testing.T) {
	compiled := scopeCondition(core.ScopeFilter{TenantID: "tenant-a"})
	require.Len(t, compiled.Must, 2)
	assert.Empty(t, compiled.Should)
	scope := compiled.Must[1].GetField()
	require.NotNil(t, scope)
	assert.Equal(t, "scope", scope.Key)
	assert.Equal(t, "horizontal", scope.GetMatch().GetKeyword())
}

func TestScopeConditionCompanyWithShared(t *testing.T) {
	compiled := scopeCondition(core.ScopeFilter{TenantID: "tenant-a", CompanyID: "company-1", IncludeShared: true})
	require.Len(t, compiled.Must, 1)
	require.Len(t, compiled.Should, 2)

	company := compiled.Should[0].GetField()
	require.NotNil(t, company)
	assert.Equal(t, "company_id", company.Key)
	assert.Equal(t, "company-1", company.GetMatch().GetKeyword())

	scope := compiled.Should[1].GetField()
	require.NotNil(t, scope)
	assert.Equal(t, "scope", scope.Key)
	assert.Equal(t, "horizontal", scope.GetMatch().GetKeyword())
}

func TestScopeConditionCompanyWithoutShared(t *testing.T) {
	compiled := scopeCondition(core.ScopeFilter{TenantID: "tenant-a", CompanyID: "company-1"})
	require.Len(t, compiled.Must, 3)
	assert.Empty(t, compiled.Should)
}
