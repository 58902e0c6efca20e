package deposit

import (
	"github.com/umbracle/ethgo/abi"
	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/proto"
)

// DepositABI is the abi of the deposit contract
var DepositABI = abi.MustNewABI(`[
	{
		"name": "deposit",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [
			{"name": "pubkey", "type": "bytes"},
			{"name": "withdrawal_credentials", "type": "bytes"},
			{"name": "signature", "type": "bytes"},
			{"name": "deposit_data_root", "type": "bytes32"}
		],
		"outputs": []
	}
]`)

// depositMethod is the deposit function of the deposit contract, selector 0x22895118
var depositMethod = DepositABI.GetMethod("deposit")

// DepositSelector returns the 4 bytes selector of the deposit function
func DepositSelector() []byte {
	return depositMethod.ID()
}

// CallData returns the input of a call to the deposit contract for this record
func (d *DepositRecord) CallData() ([]byte, error) {
	data, err := d.Data()
	if err != nil {
		return nil, err
	}
	root, err := codec.DecodeFixed(d.DepositDataRoot, proto.RootLength)
	if err != nil {
		return nil, err
	}
	var dataRoot [32]byte
	copy(dataRoot[:], root)

	return depositMethod.Encode(DepositArgs(data, dataRoot))
}

// DepositArgs are the arguments of the deposit function in abi order
func DepositArgs(data *proto.DepositData, root [32]byte) []interface{} {
	return []interface{}{
		data.Pubkey,
		data.WithdrawalCredentials,
		data.Signature,
		root,
	}
}
