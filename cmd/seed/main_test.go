package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleadr/openleadr-go/internal/domain"
)

func TestAdminUserContent(t *testing.T) {
	content := adminUserContent("admin")

	require.NoError(t, domain.Validate(content))
	require.NotNil(t, content.Description)
	assert.Equal(t, "seeded administrative user", *content.Description)
	assert.True(t, content.IsAnyBusinessUser)
	assert.Equal(t, 1, content.MarkerRoleCount())
}
