package main

// playgroundHTML serves GraphQL Playground from its CDN build, pointed at
// the local /graphql endpoint.
const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>GraphQL Playground</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css">
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
	<div id="root"></div>
	<script>
		window.addEventListener('load', function () {
			GraphQLPlayground.init(document.getElementById('root'), {
				endpoint: '/graphql'
			})
		})
	</script>
</body>
</html>
`
