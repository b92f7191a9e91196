package external

import (
	"context"
	"errors"
	"fmt"

	"docvault/pkg/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/near/borsh-go"
)

const (
	documentSeed     = "document"
	storeHashVariant = uint8(0)
	anchorCommitment = rpc.CommitmentConfirmed
)

// storeHashInstruction is the program's StoreHash instruction data.
type storeHashInstruction struct {
	Variant uint8
	Hash    [32]byte
}

func EncodeStoreInstruction(hash [32]byte) ([]byte, error) {
	return borsh.Serialize(storeHashInstruction{Variant: storeHashVariant, Hash: hash})
}

// SolanaAnchor records document hashes as program-derived accounts, one per
// hash, so a lookup only needs the hash itself.
type SolanaAnchor struct {
	Config    *SharedSolanaConfig
	RpcClient *rpc.Client
}

func NewSolanaAnchor(config *SharedSolanaConfig, rpcClient *rpc.Client) *SolanaAnchor {
	return &SolanaAnchor{Config: config, RpcClient: rpcClient}
}

func (sa *SolanaAnchor) DocumentAddress(hash [32]byte) (solana.PublicKey, error) {
	sa.Config.Mu.Lock()
	programID := sa.Config.Keys.ContractPublicKey
	sa.Config.Mu.Unlock()

	address, _, err := solana.FindProgramAddress([][]byte{[]byte(documentSeed), hash[:]}, programID)
	return address, err
}

func (sa *SolanaAnchor) Store(ctx context.Context, hash [32]byte) (string, error) {
	solanaLogger := logger.Default()

	pda, err := sa.DocumentAddress(hash)
	if err != nil {
		return "", fmt.Errorf("derive document address: %w", err)
	}
	data, err := EncodeStoreInstruction(hash)
	if err != nil {
		return "", fmt.Errorf("encode instruction: %w", err)
	}

	sa.Config.Mu.Lock()
	keys := *sa.Config.Keys
	sa.Config.Mu.Unlock()

	instruction := solana.NewInstruction(
		keys.ContractPublicKey,
		[]*solana.AccountMeta{
			solana.NewAccountMeta(pda, true, false),
			solana.NewAccountMeta(keys.AccountPublicKey, true, true),
			solana.NewAccountMeta(solana.SystemProgramID, false, false),
		},
		data,
	)

	latest, err := sa.RpcClient.GetLatestBlockhash(ctx, anchorCommitment)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(keys.AccountPublicKey),
	)
	if err != nil {
		return "", err
	}

	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(keys.AccountPublicKey) {
			return &keys.AccountPrivateKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	signature, err := sa.RpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: anchorCommitment,
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	solanaLogger.Infof("Anchored document hash at %s with signature %s", pda, signature)
	return signature.String(), nil
}

func (sa *SolanaAnchor) Verify(ctx context.Context, hash [32]byte) (bool, error) {
	pda, err := sa.DocumentAddress(hash)
	if err != nil {
		return false, fmt.Errorf("derive document address: %w", err)
	}

	acc, err := sa.RpcClient.GetAccountInfo(ctx, pda)
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("GetAccountInfo(%s) failed: %w", pda, err)
	}
	return acc != nil && acc.Value != nil, nil
}
