package executor

import (
	"fmt"

	"github.com/easywager/easywager/types"
)

// Key statedb key of a game record
func Key(gameID string) (key []byte) {
	key = append(key, []byte("mavl-"+types.WagerX+"-")...)
	key = append(key, []byte(gameID)...)
	return key
}

func calcGameStatusIndexKey(status int32, index int64) []byte {
	return []byte(fmt.Sprintf("%s-status:%d:%018d", types.WagerX, status, index))
}

func calcGameStatusIndexPrefix(status int32) []byte {
	return []byte(fmt.Sprintf("%s-status:%d:", types.WagerX, status))
}

func calcGameAddrIndexKey(status int32, addr string, index int64) []byte {
	return []byte(fmt.Sprintf("%s-addr:%d:%s:%018d", types.WagerX, status, addr, index))
}

func calcGameAddrIndexPrefix(status int32, addr string) []byte {
	return []byte(fmt.Sprintf("%s-addr:%d:%s:", types.WagerX, status, addr))
}

func addGameStatusIndex(status int32, gameID string, index int64) *types.KeyValue {
	return &types.KeyValue{
		Key:   calcGameStatusIndexKey(status, index),
		Value: types.Encode(&types.WagerRecord{GameID: gameID, Index: index}),
	}
}

func addGameAddrIndex(status int32, gameID, addr string, index int64) *types.KeyValue {
	return &types.KeyValue{
		Key:   calcGameAddrIndexKey(status, addr, index),
		Value: types.Encode(&types.WagerRecord{GameID: gameID, Index: index}),
	}
}

// a nil value deletes the key when the set is applied
func delGameStatusIndex(status int32, index int64) *types.KeyValue {
	return &types.KeyValue{Key: calcGameStatusIndexKey(status, index), Value: nil}
}

func delGameAddrIndex(status int32, addr string, index int64) *types.KeyValue {
	return &types.KeyValue{Key: calcGameAddrIndexKey(status, addr, index), Value: nil}
}
