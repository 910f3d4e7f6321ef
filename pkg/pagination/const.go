package pagination

// PageDefaultSize applies when a request carries no size.
const PageDefaultSize = 100

// PageMaxSize caps what a client may ask for in one page.
const PageMaxSize = 10_000
