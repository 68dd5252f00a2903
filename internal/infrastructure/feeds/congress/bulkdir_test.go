package congress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

func writeBillStatusFile(t *testing.T, dir, name string, congress int, billType string, number int) {
	t.Helper()
	data := fmt.Sprintf(`<billStatus><bill>
	  <congress>%d</congress><type>%s</type><number>%d</number>
	  <sponsors><item><bioguideId>A000001</bioguideId></item></sponsors>
	</bill></billStatus>`, congress, billType, number)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func TestBulkLoaderLoadsAndFiltersCongress(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "hr")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeBillStatusFile(t, sub, "BILLSTATUS-119hr1.xml", 119, "HR", 1)
	writeBillStatusFile(t, dir, "BILLSTATUS-119s2.xml", 119, "S", 2)
	writeBillStatusFile(t, dir, "BILLSTATUS-118hr9.xml", 118, "HR", 9)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte("not xml"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip me"), 0o644))

	loader := NewBulkLoader(2, logging.NewNopLogger())
	records, err := loader.Load(context.Background(), dir, 119)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Contains(t, records, "119-hr-1")
	assert.Contains(t, records, "119-s-2")
	assert.NotContains(t, records, "118-hr-9")
}

func TestBulkLoaderMissingDir(t *testing.T) {
	loader := NewBulkLoader(2, logging.NewNopLogger())
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent"), 119)
	require.Error(t, err)
}

//Personal.AI order the ending
