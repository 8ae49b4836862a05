package usergen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-vehicle-market/pkg/assembler"
	"katydid-vehicle-market/pkg/validator"
)

func TestGenerator_DraftsAreValid(t *testing.T) {
	g := New(rand.New(rand.NewSource(1)))

	for i := 0; i < 500; i++ {
		userDraft, addrDraft := g.Pair()

		user := assembler.AssembleUser(userDraft)
		require.True(t, user.IsValid(), "%v: %v", userDraft, user.Report())
		addr := assembler.AssembleAddress(addrDraft)
		require.True(t, addr.IsValid(), "%v: %v", addrDraft, addr.Report())
	}
}

func TestGenerator_Phone(t *testing.T) {
	g := NewSeeded(7)

	for _, code := range CountryCodes {
		for i := 0; i < 50; i++ {
			phone := g.PhoneIn(code)
			assert.True(t, strings.HasPrefix(phone, code), phone)
			out := validator.ValidatePhoneNumber(phone)
			assert.True(t, out.IsValid(), "%s: %v", phone, out.Reasons())
		}
	}

	assert.NotPanics(t, func() { _ = g.Phone() })
}

func TestGenerator_Fields(t *testing.T) {
	g := NewSeeded(42)

	for i := 0; i < 200; i++ {
		name := g.Name()
		username := g.Username(name)
		assert.True(t, strings.HasPrefix(username, name))
		assert.GreaterOrEqual(t, len(username), 6)
		assert.LessOrEqual(t, len(username), 19)

		email := g.Email()
		local, domain, ok := strings.Cut(email, "@")
		require.True(t, ok, email)
		assert.Len(t, local, 10)
		assert.Contains(t, EmailDomains, domain)

		assert.Contains(t, validator.Genders, g.Gender())
	}

	assert.Len(t, g.Username(strings.Repeat("n", 25)), 19)
}

func TestGenerator_Deterministic(t *testing.T) {
	a, b := NewSeeded(99), NewSeeded(99)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.User(), b.User())
		assert.Equal(t, a.Address(), b.Address())
	}
}

func TestGenerator_Corrupt(t *testing.T) {
	g := NewSeeded(3)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		draft := g.User()
		field := g.Corrupt(draft)
		seen[field] = true

		out := assembler.AssembleUser(draft)
		require.False(t, out.IsValid(), "%s corrupted but accepted: %v", field, draft)
		assert.Equal(t, []string{field}, out.Report().Fields())
	}

	for _, m := range userMutations {
		assert.True(t, seen[m.field], m.field)
	}
}
