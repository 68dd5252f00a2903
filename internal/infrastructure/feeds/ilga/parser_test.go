package ilga

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

func TestParseDirectoryListing(t *testing.T) {
	page := `<html><body><pre>
	<a href="?C=M;O=A">Last modified</a>
	<a href="/legislation/104/BillStatus/XML/10400HB0001.xml">10400HB0001.xml</a>
	<a href="10400SB0002.xml">10400SB0002.xml</a>
	<a href="/some/dir/subdir/">subdir</a>
	<a href="readme.txt">readme.txt</a>
	</pre></body></html>`

	files, err := ParseDirectoryListing(strings.NewReader(page))
	require.NoError(t, err)
	// Relative links pass through untouched; absolute links are reduced to
	// a basename and kept only when they end in .xml.
	assert.Equal(t, []string{"10400HB0001.xml", "10400SB0002.xml", "readme.txt"}, files)
}

func TestParseMembersXML(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
	<Members>
	  <Member>
	    <Name>Alice Blue</Name>
	    <FirstName>Alice</FirstName>
	    <LastName>Blue</LastName>
	    <Party>D</Party>
	    <District>5</District>
	    <Title>Representative</Title>
	  </Member>
	  <Member>
	    <MemberName>Vacant Seat</MemberName>
	    <District>n/a</District>
	  </Member>
	</Members>`)

	members := ParseMembersXML(data, 104, common.ChamberHouse)
	require.Len(t, members, 2)

	assert.Equal(t, "104-house-5", members[0].ID)
	assert.Equal(t, "Alice Blue", members[0].Name)
	assert.Equal(t, "Alice", members[0].FirstName)
	assert.Equal(t, "Blue", members[0].LastName)
	assert.EqualValues(t, "D", members[0].Party)
	assert.Equal(t, 5, members[0].District)
	assert.Equal(t, "Representative", members[0].Title)

	// Unparsable district falls back to 0.
	assert.Equal(t, "104-house-0", members[1].ID)
	assert.Equal(t, "Vacant Seat", members[1].Name)
}

func TestParseBillFilename(t *testing.T) {
	session, billType, number, ok := ParseBillFilename("10400HB0001.xml")
	require.True(t, ok)
	assert.Equal(t, 104, session)
	assert.Equal(t, "hb", billType)
	assert.Equal(t, 1, number)

	_, billType, number, ok = ParseBillFilename("10300sjrca0012.xml")
	require.True(t, ok)
	assert.Equal(t, "sjrca", billType)
	assert.Equal(t, 12, number)

	for _, name := range []string{"10400HB0001.txt", "HB0001.xml", "1040HB0001.xml", "notes.xml"} {
		_, _, _, ok := ParseBillFilename(name)
		assert.False(t, ok, name)
	}
}

func TestBillFilename(t *testing.T) {
	assert.Equal(t, "10400HB0001.xml", BillFilename(104, "hb", 1))
	assert.Equal(t, "10300SB1234.xml", BillFilename(103, "sb", 1234))
	assert.Equal(t, "10400HJRCA0012.xml", BillFilename(104, "hjrca", 12))
}

func TestParseBillXMLStructuredActions(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
	<BillStatus>
	  <ShortTitle>AN ACT concerning revenue.</ShortTitle>
	  <Synopsis>Amends the Revenue Act.</Synopsis>
	  <Actions>
	    <Action>
	      <Date>1/9/2025</Date>
	      <Chamber>House</Chamber>
	      <Description>Filed with the Clerk by Rep. Alice Blue</Description>
	    </Action>
	    <Action>
	      <Date>6/1/2025</Date>
	      <Description>Added Co-Sponsor Rep. Dana Blue</Description>
	    </Action>
	  </Actions>
	</BillStatus>`)

	rec := ParseBillXML(data, "10400HB0001.xml")
	require.NotNil(t, rec)
	assert.Equal(t, "104-hb-1", rec.ID())
	assert.Equal(t, "AN ACT concerning revenue.", rec.Title)
	assert.Equal(t, "Amends the Revenue Act.", rec.Synopsis)

	require.Len(t, rec.Actions, 2)
	assert.Equal(t, "1/9/2025", rec.Actions[0].Date)
	assert.Equal(t, "House", rec.Actions[0].Chamber)
	assert.Equal(t, "Filed with the Clerk by Rep. Alice Blue", rec.Actions[0].Text)
	assert.Equal(t, "Added Co-Sponsor Rep. Dana Blue", rec.Actions[1].Text)
}

func TestParseBillXMLFlatActions(t *testing.T) {
	data := []byte(`<BillStatus>
	  <actions>
	    <statusdate>1/9/2025</statusdate>
	    <chamber>House</chamber>
	    <action>Filed with the Clerk by Rep. Alice Blue</action>
	    <statusdate>5/30/2025</statusdate>
	    <chamber>Senate</chamber>
	    <action>Passed Both Houses</action>
	  </actions>
	</BillStatus>`)

	rec := ParseBillXML(data, "10400HB0002.xml")
	require.NotNil(t, rec)
	require.Len(t, rec.Actions, 2)
	assert.Equal(t, "1/9/2025", rec.Actions[0].Date)
	assert.Equal(t, "House", rec.Actions[0].Chamber)
	assert.Equal(t, "5/30/2025", rec.Actions[1].Date)
	assert.Equal(t, "Passed Both Houses", rec.Actions[1].Text)
}

func TestParseBillXMLSponsorFallback(t *testing.T) {
	data := []byte(`<BillStatus>
	  <ChiefSponsor><Name>Rep. Alice Blue, Rep. Dana Blue</Name></ChiefSponsor>
	</BillStatus>`)

	rec := ParseBillXML(data, "10400HB0003.xml")
	require.NotNil(t, rec)
	// The full comma-joined field is kept; the normalizer takes the first
	// name.
	assert.Equal(t, "Rep. Alice Blue, Rep. Dana Blue", rec.SponsorFallback)
	assert.Empty(t, rec.Actions)
}

func TestParseBillXMLLastActionPublicAct(t *testing.T) {
	data := []byte(`<BillStatus>
	  <actions>
	    <statusdate>1/9/2025</statusdate>
	    <action>Filed with the Clerk by Rep. Alice Blue</action>
	  </actions>
	  <lastaction>
	    <chamber/>
	    <statusdate>8/15/2025</statusdate>
	    <action>Public Act . . . . . . . . . 104-0042</action>
	  </lastaction>
	</BillStatus>`)

	rec := ParseBillXML(data, "10400HB0004.xml")
	require.NotNil(t, rec)
	assert.Equal(t, "Public Act . . . . . . . . . 104-0042", rec.LatestActionText)
	assert.Equal(t, "8/15/2025", rec.LatestActionDate)
	assert.Equal(t, "104-0042", rec.LawNumber)
	assert.Equal(t, "Public Act", rec.LawKind)
}

func TestParseBillXMLTruncation(t *testing.T) {
	long := strings.Repeat("x", 2000)
	data := []byte(`<BillStatus><Title>` + long + `</Title><Synopsis>` + long + `</Synopsis></BillStatus>`)

	rec := ParseBillXML(data, "10400SB0009.xml")
	require.NotNil(t, rec)
	assert.Len(t, rec.Title, 500)
	assert.Len(t, rec.Synopsis, 1000)
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// "é" is two bytes in UTF-8; a byte-offset cut at 5 would split it.
	assert.Equal(t, "Dupr", truncate("Dupré", 5))
	assert.Equal(t, "Dupré", truncate("Dupré", 6))
	assert.Equal(t, "Dupré", truncate("Dupré", 10))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("é", 400), 501)))
}

func TestParseBillXMLRejectsBadInput(t *testing.T) {
	assert.Nil(t, ParseBillXML([]byte(`<BillStatus/>`), "notes.txt"))
	assert.Nil(t, ParseBillXML([]byte(`plain text`), "10400HB0001.xml"))
}

//Personal.AI order the ending
