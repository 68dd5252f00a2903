package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

type cachedReport struct {
	Session int    `json:"session"`
	Rows    int    `json:"rows"`
	Note    string `json:"note"`
}

func testCache(t *testing.T) (*Cache, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, "billstats:", time.Minute, nil)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return c, mock
}

func TestStatsKeyUsesPrefix(t *testing.T) {
	c, _ := testCache(t)
	assert.Equal(t, "billstats:stats:104", c.StatsKey(104))
}

func TestGetHit(t *testing.T) {
	c, mock := testCache(t)
	want := cachedReport{Session: 104, Rows: 3, Note: "ok"}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	mock.ExpectGet("billstats:stats:104").SetVal(string(data))

	var got cachedReport
	assert.True(t, c.Get(context.Background(), "billstats:stats:104", &got))
	assert.Equal(t, want, got)
}

func TestGetMissAndCorrupt(t *testing.T) {
	c, mock := testCache(t)
	mock.ExpectGet("billstats:missing").RedisNil()
	mock.ExpectGet("billstats:corrupt").SetVal("{not json")

	var got cachedReport
	assert.False(t, c.Get(context.Background(), "billstats:missing", &got))
	assert.False(t, c.Get(context.Background(), "billstats:corrupt", &got))
}

func TestSetUsesDefaultTTL(t *testing.T) {
	c, mock := testCache(t)
	value := cachedReport{Session: 104, Rows: 1}
	data, err := json.Marshal(value)
	require.NoError(t, err)
	mock.ExpectSet("billstats:stats:104", data, time.Minute).SetVal("OK")

	c.Set(context.Background(), "billstats:stats:104", value, 0)
}

func TestGetOrSetFillsOnMiss(t *testing.T) {
	c, mock := testCache(t)
	value := cachedReport{Session: 104, Rows: 2}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	// Outer lookup misses, the in-flight re-check misses again, then the
	// loaded value is written back.
	mock.ExpectGet("billstats:stats:104").RedisNil()
	mock.ExpectGet("billstats:stats:104").RedisNil()
	mock.ExpectSet("billstats:stats:104", data, time.Minute).SetVal("OK")

	calls := 0
	got, err := c.GetOrSet(context.Background(), "billstats:stats:104", 0, func(ctx context.Context) (interface{}, error) {
		calls++
		return value, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, string(data), string(got))
}

func TestGetOrSetSkipsLoaderOnHit(t *testing.T) {
	c, mock := testCache(t)
	mock.ExpectGet("billstats:stats:104").SetVal(`{"session":104,"rows":9}`)

	got, err := c.GetOrSet(context.Background(), "billstats:stats:104", 0, func(ctx context.Context) (interface{}, error) {
		t.Fatal("loader must not run on a cache hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"session":104,"rows":9}`, string(got))
}

func TestGetOrSetPropagatesLoaderError(t *testing.T) {
	c, mock := testCache(t)
	mock.ExpectGet("billstats:stats:104").RedisNil()
	mock.ExpectGet("billstats:stats:104").RedisNil()

	_, err := c.GetOrSet(context.Background(), "billstats:stats:104", 0, func(ctx context.Context) (interface{}, error) {
		return nil, apperrors.New(apperrors.CodeStatsNotBuilt, "no stats yet")
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeStatsNotBuilt, apperrors.GetCode(err))
}

func TestDelete(t *testing.T) {
	c, mock := testCache(t)
	mock.ExpectDel("billstats:stats:104", "billstats:stats:105").SetVal(2)

	c.Delete(context.Background(), "billstats:stats:104", "billstats:stats:105")
}

//Personal.AI order the ending
