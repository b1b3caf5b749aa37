package executor

import (
	"github.com/easywager/easywager/account"
	"github.com/easywager/easywager/common"
	dbm "github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/types"
)

// GetGame read one record from the statedb. Decoded records are cached by
// content hash, so a record re-read at the same version never re-decodes.
func (w *Wager) GetGame(gameID string) (*types.Game, error) {
	value, err := w.statedb.Get(Key(gameID))
	if err != nil {
		if err == dbm.ErrNotFoundInDb {
			return nil, types.ErrGameNotFound
		}
		return nil, err
	}
	cacheKey := common.ToHex(common.Sha256(value))
	if cached, ok := w.gameCache.Get(cacheKey); ok {
		game := *cached.(*types.Game)
		return &game, nil
	}
	var game types.Game
	if err := types.Decode(value, &game); err != nil {
		return nil, err
	}
	w.gameCache.Add(cacheKey, &game)
	copied := game
	return &copied, nil
}

// GetGameList batch lookup; unknown ids are skipped rather than failing the
// whole reply
func (w *Wager) GetGameList(gameIDs []string) *types.ReplyGameList {
	var games []*types.Game
	for _, id := range gameIDs {
		game, err := w.GetGame(id)
		if err != nil {
			continue
		}
		games = append(games, game)
	}
	return &types.ReplyGameList{Games: games}
}

// ListGameByStatus page through games in one status, optionally scoped to
// one participant address. index == 0 starts a fresh scan; otherwise the
// scan resumes just past that ordering key.
func (w *Wager) ListGameByStatus(status int32, addr string, index int64, count, direction int32) (*types.ReplyGameList, error) {
	switch status {
	case types.GameStatusOpen, types.GameStatusReady, types.GameStatusPaid, types.GameStatusCanceled:
	default:
		return nil, types.ErrInvalidParam
	}
	if count <= 0 || count > MaxCount {
		count = DefaultCount
	}
	var prefix, key []byte
	if addr == "" {
		prefix = calcGameStatusIndexPrefix(status)
		if index != 0 {
			key = calcGameStatusIndexKey(status, index)
		}
	} else {
		prefix = calcGameAddrIndexPrefix(status, addr)
		if index != 0 {
			key = calcGameAddrIndexKey(status, addr, index)
		}
	}
	values, err := w.localdb.List(prefix, key, count, direction)
	if err != nil {
		return nil, err
	}
	var gameIDs []string
	for _, value := range values {
		var record types.WagerRecord
		if err := types.Decode(value, &record); err != nil {
			continue
		}
		gameIDs = append(gameIDs, record.GameID)
	}
	return w.GetGameList(gameIDs), nil
}

// GetBalance the balance of addr for one asset kind, read from the statedb
func (w *Wager) GetBalance(addr, mint string) (*types.Account, error) {
	var acc *account.DB
	if mint == "" {
		acc = account.NewCoinsAccount()
	} else {
		tokenAcc, err := account.NewTokenAccount(mint)
		if err != nil {
			return nil, err
		}
		acc = tokenAcc
	}
	acc.SetDB(w.statedb)
	return acc.LoadAccount(addr), nil
}
