package ilga

import (
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/xmltree"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// billFilenamePattern is the BillStatus naming scheme, e.g. 10400HB0001.xml:
// three-digit session, literal "00", bill type, number.
var billFilenamePattern = regexp.MustCompile(`(?i)^(\d{3})00(HB|SB|HR|SR|HJR|SJR|HJRCA|SJRCA)(\d+)\.xml$`)

// billListPattern narrows the directory listing to substantive bills;
// resolutions and amendment files are not aggregated.
var billListPattern = regexp.MustCompile(`(?i)^\d{3}00(HB|SB)\d+\.xml$`)

const (
	maxTitleLen    = 500
	maxSynopsisLen = 1000
	maxActionLen   = 500
)

// ParseDirectoryListing extracts linked XML filenames from an FTP directory
// page.  Sort-order links (query-only hrefs) are skipped; absolute hrefs are
// reduced to their basename.
func ParseDirectoryListing(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var files []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" || attr.Val == "" || strings.HasPrefix(attr.Val, "?") {
					continue
				}
				name := attr.Val
				if strings.HasPrefix(name, "/") {
					name = path.Base(name)
					if !strings.HasSuffix(strings.ToLower(name), ".xml") {
						continue
					}
				}
				files = append(files, name)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return files, nil
}

// ParseMembersXML parses one chamber roster file.  District falls back to 0
// when missing or unparsable, matching the feed's occasional vacancy rows.
func ParseMembersXML(data []byte, session int, chamber common.Chamber) []*legislator.Legislator {
	root, err := xmltree.ParseBytes(data)
	if err != nil {
		return nil
	}
	var members []*legislator.Legislator
	for _, node := range root.FindAll("Member") {
		district, err := strconv.Atoi(node.FindText("District"))
		if err != nil {
			district = 0
		}
		members = append(members, &legislator.Legislator{
			ID:        legislator.MemberID(session, chamber, district),
			Session:   session,
			Chamber:   chamber,
			District:  district,
			Name:      node.FindText("Name", "MemberName"),
			FirstName: node.FindText("FirstName"),
			LastName:  node.FindText("LastName"),
			Party:     common.Party(node.FindText("Party")),
			Title:     node.FindText("Title"),
		})
	}
	return members
}

// ParseBillFilename extracts the (session, type, number) identity from a
// BillStatus filename, or ok=false when the name does not match the scheme.
func ParseBillFilename(filename string) (session int, billType string, number int, ok bool) {
	m := billFilenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return 0, "", 0, false
	}
	session, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", 0, false
	}
	number, err = strconv.Atoi(m[3])
	if err != nil {
		return 0, "", 0, false
	}
	return session, strings.ToLower(m[2]), number, true
}

// BillFilename builds the BillStatus filename for one bill.
func BillFilename(session int, billType string, number int) string {
	return strconv.Itoa(session) + "00" + strings.ToUpper(billType) + padNumber(number) + ".xml"
}

func padNumber(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// parseActions reads action entries in either of the feed's two layouts:
// structured Action elements with Date/Description children, or a flat
// statusdate/chamber/action triple sequence.
func parseActions(root *xmltree.Node) []bill.ActionEntry {
	var actions []bill.ActionEntry
	for _, node := range root.FindAll("Action") {
		// Text-only action elements belong to the flat layout below; their
		// dates live in sibling elements.
		if len(node.Children) == 0 {
			continue
		}
		text := node.FindText("Description", "Action")
		if text == "" {
			text = node.TrimmedText()
		}
		if text == "" {
			continue
		}
		actions = append(actions, bill.ActionEntry{
			Date:    node.FindText("Date", "ActionDate"),
			Text:    truncate(text, maxActionLen),
			Chamber: node.FindText("Chamber"),
		})
	}
	if len(actions) > 0 {
		return actions
	}

	parent := root.FindFirst("actions")
	if parent == nil {
		return nil
	}
	var current bill.ActionEntry
	for _, child := range parent.Children {
		text := child.TrimmedText()
		if text == "" {
			continue
		}
		switch strings.ToLower(child.Name) {
		case "statusdate", "date", "actiondate":
			current.Date = text
		case "chamber":
			current.Chamber = text
		case "action", "description":
			current.Text = truncate(text, maxActionLen)
			actions = append(actions, current)
			current = bill.ActionEntry{}
		}
	}
	return actions
}

// sponsorFallback probes the structured sponsor block variants in priority
// order.  The action log remains authoritative; this only covers bills whose
// log never names a filer.
func sponsorFallback(root *xmltree.Node) string {
	probes := []struct{ outer, inner string }{
		{"PrimarySponsor", "Name"},
		{"PrimarySponsor", ""},
		{"ChiefSponsor", "Name"},
		{"ChiefSponsor", ""},
		{"Sponsor", "Name"},
		{"sponsor", "sponsors"},
		{"Sponsors", "Sponsor"},
	}
	for _, probe := range probes {
		node := root.FindFirst(probe.outer)
		if node == nil {
			continue
		}
		if probe.inner != "" {
			node = node.FindFirst(probe.inner)
			if node == nil {
				continue
			}
		}
		if text := node.TrimmedText(); text != "" {
			return text
		}
	}
	return ""
}

// ParseBillXML parses one BillStatus XML document into a raw record.
// Returns nil when the filename does not carry a bill identity or the body
// is not XML.
func ParseBillXML(data []byte, filename string) *bill.RawBillRecord {
	session, billType, number, ok := ParseBillFilename(filename)
	if !ok {
		return nil
	}
	root, err := xmltree.ParseBytes(data)
	if err != nil {
		return nil
	}

	rec := &bill.RawBillRecord{
		Session:         session,
		Type:            billType,
		Number:          number,
		Actions:         parseActions(root),
		SponsorFallback: sponsorFallback(root),
		Title:           truncate(root.FindText("ShortTitle", "Title"), maxTitleLen),
		Synopsis:        truncate(root.FindText("Synopsis", "Description"), maxSynopsisLen),
	}

	// The lastaction element, when present, overrides whatever the action
	// log ends on.  It is also where enactments for older sessions show up.
	if last := root.FindFirst("lastaction"); last != nil {
		if text := last.FindText("action"); text != "" {
			rec.LatestActionText = truncate(text, maxActionLen)
			rec.LatestActionDate = last.FindText("statusdate")
			if marker := bill.ExtractEnactmentMarker(text); marker != "" {
				rec.LawNumber = marker
				rec.LawKind = "Public Act"
			}
		}
	}
	return rec
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune;
// accented names from the latin-1 feed decode to multi-byte UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

//Personal.AI order the ending
