package external

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"docvault/pkg/logger"
	"docvault/pkg/utilities"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const defaultSolanaRpc = "http://localhost:8899"

type SolanaConfigJson struct {
	Enabled     bool   `json:"enabled"`
	RpcEndpoint string `json:"rpc_endpoint"`
	ProgramId   string `json:"program_id"`
	KeypairPath string `json:"keypair_path"`
}

type SolanaConfig struct {
	Enabled     bool
	RpcEndpoint string
	ProgramId   string
	KeypairPath string
}

func (scj SolanaConfigJson) ConvertToDomain() SolanaConfig {
	return SolanaConfig{
		Enabled:     scj.Enabled,
		RpcEndpoint: utilities.Ternary(scj.RpcEndpoint == "", defaultSolanaRpc, scj.RpcEndpoint),
		ProgramId:   scj.ProgramId,
		KeypairPath: scj.KeypairPath,
	}
}

type Keys struct {
	ContractPublicKey solana.PublicKey
	AccountPublicKey  solana.PublicKey
	AccountPrivateKey solana.PrivateKey
}

type SharedSolanaConfig struct {
	Mu   sync.Mutex
	Keys *Keys
}

func LoadSolanaKeys(cfg SolanaConfig) (*SharedSolanaConfig, error) {
	if cfg.ProgramId == "" {
		return nil, fmt.Errorf("solana program_id is not set")
	}
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramId)
	if err != nil {
		return nil, fmt.Errorf("invalid program_id %q: %w", cfg.ProgramId, err)
	}

	keypairPath := cfg.KeypairPath
	if keypairPath == "" {
		homeDir, _ := os.UserHomeDir()
		keypairPath = filepath.Join(homeDir, ".config", "solana", "id.json")
	}
	payerPriv, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return nil, fmt.Errorf("reading payer keypair from %s failed: %w", keypairPath, err)
	}

	keys := &Keys{
		ContractPublicKey: programID,
		AccountPublicKey:  payerPriv.PublicKey(),
		AccountPrivateKey: payerPriv,
	}

	logger.Default().Debugf("Anchor program: %s", keys.ContractPublicKey)
	logger.Default().Debugf("Anchor payer: %s", keys.AccountPublicKey)

	return &SharedSolanaConfig{Keys: keys}, nil
}

func (sc *SharedSolanaConfig) ValidateProgramExecutable(ctx context.Context, rpcClient *rpc.Client) error {
	acc, err := rpcClient.GetAccountInfo(ctx, sc.Keys.ContractPublicKey)
	if err != nil {
		return fmt.Errorf("GetAccountInfo(program) failed: %w", err)
	}
	if acc == nil || acc.Value == nil || !acc.Value.Executable {
		return fmt.Errorf("program %s is not an executable account", sc.Keys.ContractPublicKey)
	}
	return nil
}
