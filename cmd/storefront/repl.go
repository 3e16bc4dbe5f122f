package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tair/parfum-storefront/internal/cart"
	"github.com/tair/parfum-storefront/internal/catalog"
	catalogclient "github.com/tair/parfum-storefront/internal/catalog/client"
	"github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/internal/catalog/usecase/query"
	"github.com/tair/parfum-storefront/internal/search"
	"github.com/tair/parfum-storefront/pkg/api"
	"github.com/tair/parfum-storefront/pkg/auth"
	"github.com/tair/parfum-storefront/pkg/logger"
)

// repl is the interactive storefront shell.
type repl struct {
	cart     *cart.Store
	products *catalogclient.ProductClient
	list     *query.ListProductsHandler
	search   *search.Session
	sessions *auth.SessionStore
	api      *api.Client
}

func (r *repl) run(ctx context.Context) {
	fmt.Println("parfum storefront, type 'help' for commands")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			r.printHelp()
		case "products":
			r.listProducts(ctx, fields[1:])
		case "search":
			r.runSearch(ctx, strings.Join(fields[1:], " "))
		case "history":
			r.printHistory()
		case "cart":
			r.cartCommand(ctx, fields[1:])
		case "wishlist":
			r.wishlistCommand(ctx, fields[1:])
		case "login":
			r.login(ctx, fields[1:])
		case "logout":
			r.logout(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, try 'help'\n", fields[0])
		}
	}
}

func (r *repl) printHelp() {
	fmt.Print(`commands:
  products [page]            list products, newest first
  products cheap|pricey      list sorted by price
  search <query>             search by name or category
  history                    show recent searches
  cart                       show the cart
  cart add <product-id>      add one unit
  cart rm <product-id>       remove a line item
  cart qty <product-id> <n>  set quantity (0 removes)
  cart clear                 empty the cart
  wishlist                   show the wishlist
  wishlist add <product-id>  add to wishlist
  wishlist rm <product-id>   remove from wishlist
  wishlist clear             empty the wishlist
  login <token> [username]   store an issued API token
  logout                     forget the stored token
  quit                       leave
`)
}

func (r *repl) listProducts(ctx context.Context, args []string) {
	listQuery := domain.ListQuery{}
	for _, arg := range args {
		switch arg {
		case "cheap":
			listQuery.SortBy = domain.SortPriceLowHigh
		case "pricey":
			listQuery.SortBy = domain.SortPriceHighLow
		default:
			if page, err := strconv.Atoi(arg); err == nil {
				listQuery.Page = page
			}
		}
	}

	result, err := r.list.Handle(ctx, listQuery)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	r.printResult(result)
}

func (r *repl) runSearch(ctx context.Context, rawQuery string) {
	if v := search.ValidateQuery(rawQuery); !v.IsValid {
		fmt.Println(v.Message)
		return
	}

	result, err := r.search.Search(ctx, rawQuery)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if result == nil {
		return
	}
	r.printResult(result)
}

func (r *repl) printResult(result *query.ListProductsResult) {
	if result.Source == query.SourceFallback {
		fmt.Printf("! backend unreachable (%s), showing offline catalog\n", result.RemoteErr)
	}
	if len(result.Products) == 0 {
		fmt.Println("no products found")
		return
	}

	for _, p := range result.Products {
		line := fmt.Sprintf("  %-26s %-34s %8.2f", p.ID, p.Name, p.Price)
		if discount := p.DiscountPercent(); discount > 0 {
			line += fmt.Sprintf("  (-%d%%)", discount)
		}
		if r.cart.IsInWishlist(p.ID) {
			line += "  ♥"
		}
		fmt.Println(line)
	}
	fmt.Printf("page %d of %d (%d products)\n",
		result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)
}

func (r *repl) printHistory() {
	items := r.search.History().Items()
	if len(items) == 0 {
		fmt.Println("no searches yet")
		return
	}
	for _, item := range items {
		fmt.Printf("  %-30s ×%d\n", item.Query, item.Count)
	}
}

func (r *repl) cartCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.printCart()
		return
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			fmt.Println("usage: cart add <product-id>")
			return
		}
		product, err := r.lookupProduct(ctx, args[1])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		r.cart.AddToCart(ctx, *product)
		fmt.Printf("added %s (qty %d)\n", product.Name, r.cart.State().ItemQuantity(product.ID))
	case "rm":
		if len(args) < 2 {
			fmt.Println("usage: cart rm <product-id>")
			return
		}
		r.cart.RemoveFromCart(ctx, args[1])
	case "qty":
		if len(args) < 3 {
			fmt.Println("usage: cart qty <product-id> <n>")
			return
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Println("quantity must be a number")
			return
		}
		r.cart.UpdateQuantity(ctx, args[1], quantity)
	case "clear":
		r.cart.ClearCart(ctx)
	default:
		fmt.Printf("unknown cart command %q\n", args[0])
	}
}

func (r *repl) printCart() {
	state := r.cart.State()
	if len(state.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range state.Items {
		fmt.Printf("  %-26s %-34s %3d × %8.2f\n",
			item.Product.ID, item.Product.Name, item.Quantity, item.Product.Price)
	}
	fmt.Printf("%d items, total %.2f\n", state.TotalItems(), state.TotalPrice())
}

func (r *repl) wishlistCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		state := r.cart.State()
		if len(state.Wishlist) == 0 {
			fmt.Println("wishlist is empty")
			return
		}
		for _, p := range state.Wishlist {
			fmt.Printf("  %-26s %-34s %8.2f\n", p.ID, p.Name, p.Price)
		}
		return
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			fmt.Println("usage: wishlist add <product-id>")
			return
		}
		product, err := r.lookupProduct(ctx, args[1])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		r.cart.AddToWishlist(ctx, *product)
	case "rm":
		if len(args) < 2 {
			fmt.Println("usage: wishlist rm <product-id>")
			return
		}
		r.cart.RemoveFromWishlist(ctx, args[1])
	case "clear":
		r.cart.ClearWishlist(ctx)
	default:
		fmt.Printf("unknown wishlist command %q\n", args[0])
	}
}

// lookupProduct resolves a product id remotely, falling back to the
// bundled catalog so the cart keeps working offline.
func (r *repl) lookupProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := r.products.GetProduct(ctx, id)
	if err == nil {
		return product, nil
	}
	logger.Debug(ctx).Err(err).Str("product_id", id).Msg("Remote lookup failed, trying static catalog")

	for i := range catalog.StaticCatalog {
		if catalog.StaticCatalog[i].ID == id {
			return &catalog.StaticCatalog[i], nil
		}
	}
	return nil, fmt.Errorf("product %q not found: %w", id, err)
}

func (r *repl) login(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: login <token> [username]")
		return
	}
	session := auth.Session{Token: args[0]}
	if len(args) > 1 {
		session.Username = args[1]
	}
	if err := r.sessions.Save(ctx, session); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	// Cached payloads may be user-scoped from here on.
	r.api.InvalidateCache("")
	fmt.Println("logged in")
}

func (r *repl) logout(ctx context.Context) {
	if err := r.sessions.Clear(ctx); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	r.api.InvalidateCache("")
	fmt.Println("logged out")
}
