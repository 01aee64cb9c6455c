package core

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_NormalizesCodes(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0, 8, nil)

	a, err := reg.GetOrCreate(" ab12cd ")
	req.NoError(err)
	b, err := reg.GetOrCreate("AB12CD")
	req.NoError(err)

	req.Same(a, b)
	req.Equal("AB12CD", a.Code())
	req.Equal(1, reg.Len())
}

func TestRegistry_RejectsInvalidCodes(t *testing.T) {
	reg := NewRegistry(0, 8, nil)
	for _, code := range []string{"", "  ", "with space", "héllo", "TOOLONGCODE"} {
		_, err := reg.GetOrCreate(code)
		require.ErrorIs(t, err, ErrRoomCodeInvalid, "code %q", code)
	}
	require.Zero(t, reg.Len())
}

func TestRegistry_ConcurrentJoinsShareOneRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0, 0, nil)

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.Join("XYZ", NewClient("p"+strconv.Itoa(i), 4*n))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	req.Equal(1, reg.Len())
	room, ok := reg.Lookup("xyz")
	req.True(ok)
	req.Equal(n, room.Len())
	req.EqualValues(1, reg.Stats().RoomsCreated)
}

func TestRegistry_RemoveIfEmptyKeepsOccupiedRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0, 0, nil)

	room, err := reg.GetOrCreate("XYZ")
	req.NoError(err)
	_, err = room.Join(NewClient("a", 4))
	req.NoError(err)

	req.False(reg.RemoveIfEmpty(room))
	_, ok := reg.Lookup("XYZ")
	req.True(ok)
}

func TestRegistry_ClosedRoomIsReplaced(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0, 0, nil)

	old, err := reg.GetOrCreate("XYZ")
	req.NoError(err)
	req.True(reg.RemoveIfEmpty(old))

	// A stale handle cannot take members
	_, err = old.Join(NewClient("a", 4))
	req.ErrorIs(err, errRoomClosed)

	sess, err := reg.Join("XYZ", NewClient("a", 4))
	req.NoError(err)
	req.Equal("XYZ", sess.RoomCode)

	fresh, ok := reg.Lookup("XYZ")
	req.True(ok)
	req.NotSame(old, fresh)
	req.False(reg.RemoveIfEmpty(old))
}

func TestRegistry_ChurnLeavesNoRooms(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(4, 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := "R" + strconv.Itoa(i%5)
			id := "p" + strconv.Itoa(i)
			for rangeIdx := 0; rangeIdx < 20; rangeIdx++ {
				c := NewClient(id, 256)
				if _, err := reg.Join(code, c); err != nil {
					t.Errorf("join: %v", err)
					return
				}
				if room, ok := reg.Lookup(code); ok {
					room.Leave(id, LeaveReasonLeft)
				}
			}
		}(i)
	}
	wg.Wait()

	req.Zero(reg.Len())
	stats := reg.Stats()
	req.Zero(stats.ActiveRooms)
	req.Zero(stats.ActiveSessions)
	req.Equal(stats.Joins, stats.Leaves)
}
