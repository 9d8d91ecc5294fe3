package api

// API Client-
//
// Files:
//   base.go         - Client struct, Dial, chain id, nonce and native balance
//   celo.go         - fee-currency aware fee market queries (gas price, priority fee)
//   erc20.go        - ERC-20 reads (symbol, decimals, balanceOf) and transfer calldata
//   transaction.go  - gas estimation, raw broadcast and receipt waiting
//   price.go        - fiat price lookups
//   types.go        - shared request/response types
//   errors.go       - sentinel errors
//
// Usage:
//   client, err := api.Dial(ctx, cfg.RPCURL)
//   quote, err := fees.FetchQuote(ctx, client, cfg.FeeCurrency)
//   token, err := client.TokenInfo(ctx, *cfg.FeeCurrency, account.Address)
//   hash, err := client.SendRawTransaction(ctx, raw)
//   receipt, err := client.WaitForReceipt(ctx, hash, cfg.PollInterval, nil)
