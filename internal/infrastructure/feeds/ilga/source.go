package ilga

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Source feeds the stats builder from the ILGA FTP site.  It implements both
// the member and bill source interfaces.
type Source struct {
	client  *Client
	workers int
	log     logging.Logger
}

// NewSource builds a Source over an ILGA client.
func NewSource(client *Client, workers int, log logging.Logger) *Source {
	if workers <= 0 {
		workers = 8
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Source{client: client, workers: workers, log: log.Named("ilga_source")}
}

func (s *Source) membersURL(session int, chamber common.Chamber) string {
	label := "House"
	if chamber == common.ChamberSenate {
		label = "Senate"
	}
	return fmt.Sprintf("%s/Members/%d%sMembers.xml", s.client.BaseURL(), session, label)
}

func (s *Source) billsURL(session int) string {
	return fmt.Sprintf("%s/legislation/%d/BillStatus/XML", s.client.BaseURL(), session)
}

// FetchMembers retrieves both chamber rosters.  One chamber failing is
// tolerated so a partial roster still aggregates; both failing is an error.
func (s *Source) FetchMembers(ctx context.Context, session int) ([]*legislator.Legislator, error) {
	var members []*legislator.Legislator
	var lastErr error
	for _, chamber := range []common.Chamber{common.ChamberHouse, common.ChamberSenate} {
		data, err := s.client.FetchXML(ctx, s.membersURL(session, chamber))
		if err != nil {
			s.log.Warn("member roster fetch failed",
				logging.Int("session", session),
				logging.String("chamber", string(chamber)),
				logging.Err(err))
			lastErr = err
			continue
		}
		parsed := ParseMembersXML(data, session, chamber)
		s.log.Info("member roster fetched",
			logging.Int("session", session),
			logging.String("chamber", string(chamber)),
			logging.Int("members", len(parsed)))
		members = append(members, parsed...)
	}
	if len(members) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return members, nil
}

// FetchBills lists the BillStatus directory, drops excluded identities, and
// fetches the remainder over a bounded pool.  Individual bill failures are
// logged and skipped so one bad file cannot sink a full build.
func (s *Source) FetchBills(ctx context.Context, session int, exclude map[string]bool) ([]*bill.RawBillRecord, error) {
	files, err := s.client.FetchListing(ctx, s.billsURL(session))
	if err != nil {
		return nil, err
	}

	var wanted []string
	for _, name := range files {
		if !billListPattern.MatchString(name) {
			continue
		}
		fileSession, billType, number, ok := ParseBillFilename(name)
		if !ok || fileSession != session {
			continue
		}
		if exclude != nil && exclude[bill.BillID(session, billType, number)] {
			continue
		}
		wanted = append(wanted, name)
	}
	s.log.Info("bill listing fetched",
		logging.Int("session", session),
		logging.Int("listed", len(files)),
		logging.Int("to_fetch", len(wanted)))

	var mu sync.Mutex
	var records []*bill.RawBillRecord
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for _, name := range wanted {
		name := name
		group.Go(func() error {
			data, err := s.client.FetchXML(gctx, s.billsURL(session)+"/"+name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log.Warn("bill fetch failed", logging.String("file", name), logging.Err(err))
				return nil
			}
			rec := ParseBillXML(data, name)
			if rec == nil {
				s.log.Warn("bill parse failed", logging.String("file", name))
				return nil
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchBill retrieves one bill by identity, for pending-bill re-checks.
func (s *Source) FetchBill(ctx context.Context, session int, billType string, number int) (*bill.RawBillRecord, error) {
	name := BillFilename(session, billType, number)
	data, err := s.client.FetchXML(ctx, s.billsURL(session)+"/"+name)
	if err != nil {
		return nil, err
	}
	rec := ParseBillXML(data, name)
	if rec == nil {
		return nil, apperrors.Newf(apperrors.ErrCodeFeedParseError, "unparsable bill file %s", name)
	}
	return rec, nil
}

//Personal.AI order the ending
