package utils

// Page names, as dispatched from the first path segment.
var (
	HomePage          = "home"
	AboutPage         = "about"
	PostPage          = "post"
	NewPostPage       = "new_post"
	LoginPage         = "login"
	KeyLoginPage      = "key_login"
	KeyRequestPage    = "key_request"
	LogoutPage        = "logout"
	RegisterPage      = "register"
	NewCommentPage    = "new_comment"
	DeleteCommentPage = "delete_comment"
)

var (
	HomeURI          = "/"
	AboutURI         = "/about"
	PostURI          = "/post"
	NewPostURI       = "/new_post"
	LoginURI         = "/login"
	KeyLoginURI      = "/key_login"
	KeyRequestURI    = "/key_request"
	LogoutURI        = "/logout"
	RegisterURI      = "/register"
	NewCommentURI    = "/new_comment"
	DeleteCommentURI = "/delete_comment"
)

var (
	HomeTemplate       = "home"
	AboutTemplate      = "about"
	PostTemplate       = "post"
	NewPostTemplate    = "new_post"
	LoginTemplate      = "login"
	KeyRequestTemplate = "key_request"
	RegisterTemplate   = "register"
	CommentTemplate    = "comment"
	ErrorTemplate      = "error"
)

var DefaultLayout = "layouts/main"
