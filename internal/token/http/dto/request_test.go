package dto

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

func TestIssueTokenRequestFromForm(t *testing.T) {
	form := url.Values{
		"description":                    {"nightly"},
		"expire_type":                    {"days"},
		"expire_duration":                {"7"},
		"resource:fixtures:facetable:vt": {"on"},
		"all:view-instance":              {"on"},
		"database:fixtures:execute-sql":  {""},
		"csrftoken":                      {"x"},
		"database:fixtures":              {"on"},
	}

	req := IssueTokenRequestFromForm(form)

	assert.Equal(t, "nightly", req.Description)
	assert.Equal(t, "days", req.ExpireType)
	assert.Equal(t, "7", req.ExpireDuration)
	assert.Equal(t, []string{
		"all:view-instance",
		"database:fixtures:execute-sql",
		"resource:fixtures:facetable:vt",
	}, req.Restrictions)
}

func TestIssueTokenRequest_Validate(t *testing.T) {
	t.Run("Success_Empty", func(t *testing.T) {
		req := IssueTokenRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_WithRestrictions", func(t *testing.T) {
		req := IssueTokenRequest{
			Description:  "ci",
			Restrictions: []string{"all:view-instance", "database:fixtures:vq"},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_UnknownRestrictionDropped", func(t *testing.T) {
		req := IssueTokenRequest{Restrictions: []string{"all:view-instance", "nope"}}
		require.NoError(t, req.Validate())

		tags := req.ToDomain().Tags
		require.Len(t, tags, 1)
		assert.Equal(t, "all:view-instance", tags[0].Key())
	})

	t.Run("Error_DescriptionTooLong", func(t *testing.T) {
		req := IssueTokenRequest{Description: strings.Repeat("a", MaxDescriptionLength+1)}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description")
	})

	t.Run("Error_DurationWithWhitespace", func(t *testing.T) {
		req := IssueTokenRequest{ExpireType: "hours", ExpireDuration: " 10"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expire_duration")
	})

	t.Run("Error_DurationNotDigits", func(t *testing.T) {
		req := IssueTokenRequest{ExpireType: "hours", ExpireDuration: "1.5"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expire_duration")
	})
}

func TestIssueTokenRequest_ToDomain(t *testing.T) {
	req := IssueTokenRequest{
		Description:    "ci",
		ExpireType:     "minutes",
		ExpireDuration: "15",
		Restrictions:   []string{"all:vi", "resource:db:t~2Fx:view-table"},
	}

	input := req.ToDomain()

	assert.Equal(t, "ci", input.Description)
	assert.Equal(t, "minutes", input.ExpireType)
	assert.Equal(t, "15", input.ExpireDuration)
	require.Len(t, input.Tags, 2)
	assert.Equal(t, tokenDomain.ScopeAll, input.Tags[0].Kind)
	assert.Equal(t, "t/x", input.Tags[1].Resource)
}

func TestUpdateTokenRequestFromForm(t *testing.T) {
	tests := []struct {
		value  string
		revoke bool
	}{
		{"1", true},
		{"on", true},
		{"true", true},
		{"", false},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			req := UpdateTokenRequestFromForm(url.Values{FieldRevoke: {tt.value}})
			assert.Equal(t, tt.revoke, req.Revoke)
		})
	}
}
