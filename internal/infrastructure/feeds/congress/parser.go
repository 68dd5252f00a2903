// Package congress ingests national bill data from two sources: Bill Status
// bulk XML files and the Congress.gov v3 REST API.  Both produce the same
// RawBillRecord shape for the normalizer.
package congress

import (
	"strconv"
	"strings"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/xmltree"
)

// bioguideAliases is the field-name drift seen across Bill Status versions.
var bioguideAliases = []string{"bioguideId", "bioguideID", "bioguide"}

// extractBioguide probes attributes first, then child elements.
func extractBioguide(item *xmltree.Node) string {
	for _, alias := range bioguideAliases {
		if v := item.Attr(alias); v != "" {
			return v
		}
	}
	return item.FindText(bioguideAliases...)
}

func boolishText(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	return false
}

// extractSponsor returns the first sponsor entry carrying a bioguide id, or
// nil.
func extractSponsor(root *xmltree.Node) *bill.SponsorRef {
	parent := root.FindFirst("sponsors")
	if parent == nil {
		return nil
	}
	for _, item := range parent.Children {
		name := strings.ToLower(item.Name)
		if name != "item" && name != "sponsor" {
			continue
		}
		bioguide := extractBioguide(item)
		if bioguide == "" {
			continue
		}
		return &bill.SponsorRef{
			ID:      bioguide,
			Name:    item.FindText("fullName", "name"),
			Party:   item.FindText("party"),
			State:   item.FindText("state"),
			Chamber: item.FindText("chamber"),
		}
	}
	return nil
}

// extractCoSponsors walks the cosponsors block.  Entries without a bioguide
// id are dropped.
func extractCoSponsors(root *xmltree.Node) []bill.CoSponsorRef {
	parent := root.FindFirst("cosponsors")
	if parent == nil {
		return nil
	}
	var out []bill.CoSponsorRef
	for _, item := range parent.Children {
		name := strings.ToLower(item.Name)
		if name != "item" && name != "cosponsor" {
			continue
		}
		bioguide := extractBioguide(item)
		if bioguide == "" {
			continue
		}
		withdrawnDate := item.FindText("withdrawnDate", "sponsorshipWithdrawnDate", "withdrawalDate")
		withdrawnFlag := item.FindText("isWithdrawn", "withdrawn")
		originalFlag := item.FindText("isOriginalCosponsor", "originalCosponsor", "isOriginal")
		out = append(out, bill.CoSponsorRef{
			ID:         bioguide,
			Name:       item.FindText("fullName", "name"),
			Party:      item.FindText("party"),
			State:      item.FindText("state"),
			Chamber:    item.FindText("chamber"),
			IsOriginal: boolishText(originalFlag),
			Withdrawn:  withdrawnDate != "" || boolishText(withdrawnFlag),
		})
	}
	return out
}

// extractLaw reads the first laws entry into the record's law fields.
func extractLaw(root *xmltree.Node, rec *bill.RawBillRecord) {
	parent := root.FindFirst("laws")
	if parent == nil {
		return
	}
	for _, item := range parent.Children {
		if !strings.EqualFold(item.Name, "item") && !strings.EqualFold(item.Name, "law") {
			continue
		}
		number := item.FindText("number")
		if number == "" {
			continue
		}
		rec.LawNumber = number
		rec.LawKind = item.FindText("type")
		return
	}
}

// ParseBillStatusXML parses one Bill Status payload into a raw record.
// Returns nil for payloads missing the bill identity triple; extraction never
// errors on malformed sponsor data, it degrades to an empty field.
func ParseBillStatusXML(data []byte) *bill.RawBillRecord {
	root, err := xmltree.ParseBytes(data)
	if err != nil {
		return nil
	}

	congressRaw := root.FindText("congress")
	billType := root.FindText("billType", "type")
	numberRaw := root.FindText("billNumber", "number")
	if congressRaw == "" || billType == "" || numberRaw == "" {
		return nil
	}
	congress, err := strconv.Atoi(congressRaw)
	if err != nil {
		return nil
	}
	number, err := strconv.Atoi(strings.TrimSpace(numberRaw))
	if err != nil {
		return nil
	}

	rec := &bill.RawBillRecord{
		Session:    congress,
		Type:       strings.ToLower(strings.TrimSpace(billType)),
		Number:     number,
		UpdateDate: root.FindText("updateDateIncludingText", "updateDate"),
		Sponsor:    extractSponsor(root),
		CoSponsors: extractCoSponsors(root),
		Title:      root.FindText("title"),
	}

	if latest := root.FindFirst("latestAction"); latest != nil {
		rec.LatestActionText = latest.FindText("text")
		rec.LatestActionDate = latest.FindText("actionDate")
	}
	extractLaw(root, rec)
	return rec
}

//Personal.AI order the ending
