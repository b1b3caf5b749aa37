package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easywager/easywager/common/address"
	dbm "github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/types"
)

func TestExecDispatch(t *testing.T) {
	e := newTestEnv(t)
	e.wager.SetEnv(1, 1000)
	assert.Equal(t, types.WagerX, e.wager.GetDriverName())

	tx := &types.Transaction{Execer: []byte(types.WagerX), Payload: []byte("{broken"), From: p1}
	_, err := e.wager.Exec(tx, 0)
	assert.Equal(t, types.ErrInvalidParam, err)

	// unknown action type
	tx.Payload = types.Encode(&types.WagerAction{Ty: 99})
	_, err = e.wager.Exec(tx, 0)
	assert.Equal(t, types.ErrActionNotSupport, err)

	// ty without its matching payload branch
	tx.Payload = types.Encode(&types.WagerAction{Ty: types.WagerActionJoin})
	_, err = e.wager.Exec(tx, 0)
	assert.Equal(t, types.ErrActionNotSupport, err)
}

func listIDs(t *testing.T, e *testEnv, status int32, addr string) []string {
	reply, err := e.wager.ListGameByStatus(status, addr, 0, 0, dbm.ListDESC)
	require.NoError(t, err)
	ids := make([]string, 0, len(reply.Games))
	for _, game := range reply.Games {
		ids = append(ids, game.GameID)
	}
	return ids
}

func TestLocalIndex(t *testing.T) {
	e := newTestEnv(t)
	e.fund(p1, "", 1000)
	e.fund(p2, "", 1000)

	_, err := e.exec(p1, createAction("", 100, 8500, 2000, arbiter, dev, 1), 1000)
	require.NoError(t, err)
	gameID := address.GameAddress(p1, 1)

	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusOpen, ""))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusOpen, p1))
	// the joiner owns no index entry while the game is Open
	assert.Empty(t, listIDs(t, e, types.GameStatusOpen, p2))

	_, err = e.exec(p2, joinAction(gameID), 1100)
	require.NoError(t, err)

	assert.Empty(t, listIDs(t, e, types.GameStatusOpen, ""))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusReady, ""))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusReady, p1))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusReady, p2))

	_, err = e.exec(arbiter, resolveAction(gameID, p1), 1200)
	require.NoError(t, err)

	assert.Empty(t, listIDs(t, e, types.GameStatusReady, ""))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusPaid, ""))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusPaid, p2))

	_, err = e.wager.ListGameByStatus(types.GameStatusExpired, "", 0, 0, dbm.ListDESC)
	assert.Equal(t, types.ErrInvalidParam, err)
	_, err = e.wager.ListGameByStatus(0, "", 0, 0, dbm.ListDESC)
	assert.Equal(t, types.ErrInvalidParam, err)
}

func TestLocalIndexOrdering(t *testing.T) {
	e := newTestEnv(t)
	for nonce := int64(1); nonce <= 3; nonce++ {
		_, err := e.exec(p1, createAction("", 100, 8500, 2000, "", dev, nonce), 1000)
		require.NoError(t, err)
	}
	id1 := address.GameAddress(p1, 1)
	id2 := address.GameAddress(p1, 2)
	id3 := address.GameAddress(p1, 3)

	// DESC returns newest first, ASC oldest first
	assert.Equal(t, []string{id3, id2, id1}, listIDs(t, e, types.GameStatusOpen, ""))
	reply, err := e.wager.ListGameByStatus(types.GameStatusOpen, "", 0, 0, dbm.ListASC)
	require.NoError(t, err)
	require.Len(t, reply.Games, 3)
	assert.Equal(t, id1, reply.Games[0].GameID)

	// resume past the newest entry
	reply, err = e.wager.ListGameByStatus(types.GameStatusOpen, "", reply.Games[2].Index, 0, dbm.ListDESC)
	require.NoError(t, err)
	require.Len(t, reply.Games, 2)
	assert.Equal(t, id2, reply.Games[0].GameID)
}

func TestExecDelLocal(t *testing.T) {
	e := newTestEnv(t)
	e.fund(p1, "", 1000)
	e.fund(p2, "", 1000)

	_, err := e.exec(p1, createAction("", 100, 8500, 2000, arbiter, dev, 1), 1000)
	require.NoError(t, err)
	gameID := address.GameAddress(p1, 1)

	e.height++
	e.wager.SetEnv(e.height, 1100)
	tx := &types.Transaction{
		Execer:  []byte(types.WagerX),
		Payload: types.Encode(joinAction(gameID)),
		From:    p2,
	}
	receipt, err := e.wager.Exec(tx, 0)
	require.NoError(t, err)
	set, err := e.wager.ExecLocal(receipt)
	require.NoError(t, err)
	require.NoError(t, e.wager.WriteLocal(set))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusReady, ""))

	// unwinding the join restores the Open index entry
	set, err = e.wager.ExecDelLocal(receipt)
	require.NoError(t, err)
	require.NoError(t, e.wager.WriteLocal(set))
	assert.Empty(t, listIDs(t, e, types.GameStatusReady, ""))
	assert.Equal(t, []string{gameID}, listIDs(t, e, types.GameStatusOpen, ""))
	assert.Empty(t, listIDs(t, e, types.GameStatusReady, p2))
}

func TestExecLocalIgnoresFailures(t *testing.T) {
	e := newTestEnv(t)
	set, err := e.wager.ExecLocal(nil)
	require.NoError(t, err)
	assert.Empty(t, set.KV)

	set, err = e.wager.ExecLocal(&types.Receipt{Ty: types.ExecErr})
	require.NoError(t, err)
	assert.Empty(t, set.KV)
}

func TestGetGame(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.wager.GetGame("missing")
	assert.Equal(t, types.ErrGameNotFound, err)

	_, err = e.exec(p1, createAction("", 100, 8500, 2000, "", dev, 1), 1000)
	require.NoError(t, err)
	gameID := address.GameAddress(p1, 1)

	game, err := e.wager.GetGame(gameID)
	require.NoError(t, err)
	// cached reads hand out copies, not the cached record
	game.Status = types.GameStatusPaid
	again, err := e.wager.GetGame(gameID)
	require.NoError(t, err)
	assert.Equal(t, types.GameStatusOpen, again.Status)

	reply := e.wager.GetGameList([]string{gameID, "missing"})
	require.Len(t, reply.Games, 1)
	assert.Equal(t, gameID, reply.Games[0].GameID)
}
