package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
)

func TestProduct_TablaDeTransiciones(t *testing.T) {
	casos := []struct {
		status   string
		submit   bool
		approve  bool
		reject   bool
		editable bool
	}{
		{entity.StatusDraft, true, false, false, true},
		{entity.StatusPendingApproval, false, true, true, true},
		{entity.StatusApproved, false, false, false, false},
	}
	for _, c := range casos {
		p := &entity.Product{Status: c.status}
		assert.Equal(t, c.submit, p.CanSubmit(), "CanSubmit desde %s", c.status)
		assert.Equal(t, c.approve, p.CanApprove(), "CanApprove desde %s", c.status)
		assert.Equal(t, c.reject, p.CanReject(), "CanReject desde %s", c.status)
		assert.Equal(t, c.editable, p.IsEditable(), "IsEditable desde %s", c.status)
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, entity.IsValidStatus(entity.StatusDraft))
	assert.True(t, entity.IsValidStatus(entity.StatusPendingApproval))
	assert.True(t, entity.IsValidStatus(entity.StatusApproved))
	assert.False(t, entity.IsValidStatus("rejected"), "no existe estado terminal de rechazo")
	assert.False(t, entity.IsValidStatus(""))
}
