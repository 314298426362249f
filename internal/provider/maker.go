package provider

import (
	"context"
	"errors"
	"math"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cryptomax/internal/rates"
)

// DefaultMakerPotAddress is the MakerDAO Pot contract on mainnet.
const DefaultMakerPotAddress = "0x197E90f9FAD81970bA7976f33CbD77088E5D7cf7"

const potABIJSON = `[{"inputs":[],"name":"dsr","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

const secondsPerYear = 31_536_000

var potABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(potABIJSON))
	if err != nil {
		panic("failed to parse Pot ABI: " + err.Error())
	}
	potABI = parsed
}

// MakerOptions parameterise the on-chain DSR adapter.
type MakerOptions struct {
	RPCURL     string
	PotAddress string
	Timeout    time.Duration
}

// Maker reads the Dai Savings Rate from the MakerDAO Pot contract. The
// contract exposes dsr() as a per-second growth factor scaled by 1e27;
// compounding it over a year gives the advertised DAI savings APY.
type Maker struct {
	opts      MakerOptions
	logger    zerolog.Logger
	client    *ethclient.Client
	clientMux sync.Mutex
}

func NewMaker(opts MakerOptions, logger zerolog.Logger) *Maker {
	if opts.PotAddress == "" {
		opts.PotAddress = DefaultMakerPotAddress
	}
	return &Maker{
		opts:   opts,
		logger: logger.With().Str("component", "provider").Str("provider", "maker").Logger(),
	}
}

func (m *Maker) Name() string { return "maker" }

func (m *Maker) Collect(ctx context.Context) ([]rates.RateRecord, error) {
	if m.opts.RPCURL == "" {
		return nil, fetchErr(m.Name(), errors.New("ethereum rpc url not configured"))
	}

	timeout := m.opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := m.getClient(ctx)
	if err != nil {
		return nil, fetchErr(m.Name(), err)
	}

	payload, err := potABI.Pack("dsr")
	if err != nil {
		return nil, parseErr(m.Name(), "pack dsr call: %w", err)
	}

	addr := common.HexToAddress(m.opts.PotAddress)
	res, err := client.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: payload}, nil)
	if err != nil {
		return nil, fetchErr(m.Name(), err)
	}

	outputs, err := potABI.Unpack("dsr", res)
	if err != nil {
		return nil, parseErr(m.Name(), "unpack dsr response: %w", err)
	}
	if len(outputs) != 1 {
		return nil, parseErr(m.Name(), "unexpected dsr response shape")
	}
	ray, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, parseErr(m.Name(), "failed to decode dsr output")
	}

	apy, err := dsrToAPY(ray)
	if err != nil {
		return nil, parseErr(m.Name(), "convert dsr to apy: %w", err)
	}

	return []rates.RateRecord{{
		Provider:   m.Name(),
		Network:    "DAI",
		Rate:       apy,
		Metric:     rates.MetricAPY,
		Source:     m.opts.RPCURL,
		RawSnippet: `{"dsr":"` + ray.String() + `"}`,
	}}, nil
}

// dsrToAPY compounds the per-second ray rate over a year and converts it
// to percent. A dsr of exactly 1e27 means a zero savings rate.
func dsrToAPY(ray *big.Int) (decimal.Decimal, error) {
	perSecond, _ := new(big.Float).Quo(
		new(big.Float).SetInt(ray),
		big.NewFloat(1e27),
	).Float64()

	if perSecond < 1 {
		return decimal.Decimal{}, errors.New("dsr below one, rate would be negative")
	}

	apy := (math.Pow(perSecond, secondsPerYear) - 1) * 100
	if math.IsInf(apy, 0) || math.IsNaN(apy) {
		return decimal.Decimal{}, errors.New("dsr compounds to a non-finite rate")
	}
	return decimal.NewFromFloat(apy), nil
}

func (m *Maker) getClient(ctx context.Context) (*ethclient.Client, error) {
	m.clientMux.Lock()
	defer m.clientMux.Unlock()

	if m.client != nil {
		return m.client, nil
	}

	client, err := ethclient.DialContext(ctx, m.opts.RPCURL)
	if err != nil {
		return nil, err
	}
	m.client = client
	return client, nil
}

var _ Adapter = (*Maker)(nil)
