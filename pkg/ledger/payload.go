package ledger

import (
	"encoding/json"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/near/borsh-go"
)

const (
	EncodingJSON    = "json"
	EncodingBorsh   = "borsh"
	EncodingBincode = "bincode"
	EncodingRaw     = "raw"
)

// PayloadEncoder turns an instruction payload into instruction data.
type PayloadEncoder interface {
	Encode(payload any) ([]byte, error)
}

// JSONEncoder encodes payloads as UTF-8 JSON documents.
type JSONEncoder struct{}

func (JSONEncoder) Encode(payload any) ([]byte, error) {
	return json.Marshal(payload)
}

// BorshEncoder encodes payloads with borsh, the layout most Anchor and native programs expect.
type BorshEncoder struct{}

func (BorshEncoder) Encode(payload any) ([]byte, error) {
	return borsh.Serialize(payload)
}

// BincodeEncoder encodes payloads with the bincode layout used by the native Solana programs.
type BincodeEncoder struct{}

func (BincodeEncoder) Encode(payload any) ([]byte, error) {
	return bin.MarshalBin(payload)
}

// RawEncoder passes []byte payloads through untouched.
type RawEncoder struct{}

func (RawEncoder) Encode(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("raw encoder expects []byte or string, got %T", payload)
	}
}

func EncoderForName(name string) (PayloadEncoder, error) {
	switch name {
	case "", EncodingJSON:
		return JSONEncoder{}, nil
	case EncodingBorsh:
		return BorshEncoder{}, nil
	case EncodingBincode:
		return BincodeEncoder{}, nil
	case EncodingRaw:
		return RawEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown payload encoding %q", name)
	}
}
