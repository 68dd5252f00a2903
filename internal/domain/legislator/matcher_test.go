package legislator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

func member(id, name, first, last string, chamber common.Chamber) *Legislator {
	return &Legislator{
		ID:        id,
		Name:      name,
		FirstName: first,
		LastName:  last,
		Chamber:   chamber,
		Session:   104,
	}
}

func TestMatchExactNormalized(t *testing.T) {
	m := NewMatcher([]*Legislator{
		member("104-house-1", "John A. Smith", "John", "Smith", common.ChamberHouse),
	})

	got := m.Match("Rep. John A. Smith, Jr.", "")
	require.NotNil(t, got)
	assert.Equal(t, "104-house-1", got.ID)
	assert.Empty(t, m.Unmatched())
}

func TestMatchSimplifiedFirstLast(t *testing.T) {
	m := NewMatcher([]*Legislator{
		member("104-house-1", "John A. Smith", "John", "Smith", common.ChamberHouse),
	})

	// Middle name differs from roster; simplified key still resolves.
	got := m.Match("John Andrew Smith", "")
	require.NotNil(t, got)
	assert.Equal(t, "104-house-1", got.ID)
}

func TestMatchLastNameWithChamberHint(t *testing.T) {
	m := NewMatcher([]*Legislator{
		member("104-house-5", "Mary Jones", "Mary", "Jones", common.ChamberHouse),
		member("104-senate-9", "Emil Jones", "Emil", "Jones", common.ChamberSenate),
	})

	got := m.Match("Jones", common.ChamberSenate)
	require.NotNil(t, got)
	assert.Equal(t, "104-senate-9", got.ID)

	got = m.Match("Jones", common.ChamberHouse)
	require.NotNil(t, got)
	assert.Equal(t, "104-house-5", got.ID)
}

func TestMatchAmbiguousWithoutHintFailsClosed(t *testing.T) {
	m := NewMatcher([]*Legislator{
		member("104-house-5", "Mary Jones", "Mary", "Jones", common.ChamberHouse),
		member("104-senate-9", "Emil Jones", "Emil", "Jones", common.ChamberSenate),
	})

	got := m.Match("Jones", "")
	assert.Nil(t, got)

	unmatched := m.Unmatched()
	require.Len(t, unmatched, 1)
	assert.Equal(t, "Jones", unmatched[0].Name)
	assert.Equal(t, "jones", unmatched[0].Normalized)
}

func TestMatchUniqueLastNameWithoutHint(t *testing.T) {
	m := NewMatcher([]*Legislator{
		member("104-house-5", "Mary Jones", "Mary", "Jones", common.ChamberHouse),
	})

	got := m.Match("Jones", "")
	require.NotNil(t, got)
	assert.Equal(t, "104-house-5", got.ID)
}

func TestMatchEmptyNameRecordsNothing(t *testing.T) {
	m := NewMatcher(nil)
	assert.Nil(t, m.Match("", common.ChamberHouse))
	assert.Empty(t, m.Unmatched())
}

func TestMatchUnknownNameRecorded(t *testing.T) {
	m := NewMatcher([]*Legislator{
		member("104-house-1", "John Smith", "John", "Smith", common.ChamberHouse),
	})

	assert.Nil(t, m.Match("Rep. Unknown Person", common.ChamberHouse))
	unmatched := m.Unmatched()
	require.Len(t, unmatched, 1)
	assert.Equal(t, "Rep. Unknown Person", unmatched[0].Name)
	assert.Equal(t, common.ChamberHouse, unmatched[0].Chamber)
	assert.Equal(t, "unknown person", unmatched[0].Normalized)
}

func TestSimpleLookupFirstEntryWinsOnCollision(t *testing.T) {
	first := member("104-house-1", "Ann Williams", "Ann", "Williams", common.ChamberHouse)
	second := member("104-senate-2", "Ann B. Williams", "Ann", "Williams", common.ChamberSenate)
	m := NewMatcher([]*Legislator{first, second})

	got := m.Match("Ann C. Williams", "")
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestMemberID(t *testing.T) {
	assert.Equal(t, "104-house-12", MemberID(104, common.ChamberHouse, 12))
}

//Personal.AI order the ending
