package graph

// Schema is the GraphQL schema. List queries default to 10 items when no
// limit is given; the connection fields resolve every referenced id
// unless a limit caps them. Items and users that fail to load are
// silently absent from connection results.
const Schema = `
	schema {
		query: Query
	}

	type Query {
		# Current front page stories in rank order.
		top(limit: Int): [Item!]!
		# Newest stories.
		newest(limit: Int): [Item!]!
		# Best stories.
		best(limit: Int): [Item!]!
		# Latest Ask HN stories.
		ask(limit: Int): [Item!]!
		# Latest Show HN stories.
		show(limit: Int): [Item!]!
		# Latest job postings.
		jobs(limit: Int): [Item!]!
		# A single item, null when the id is unknown.
		item(id: Int!): Item
		# A single user profile, null when the username is unknown.
		user(username: String!): User
		# The id of the newest item.
		maxItem: Int!
		# Recently changed items and profiles.
		updates: Updates!
	}

	interface Item {
		id: Int!
		title: String
		author: String
	}

	type Story implements Item {
		id: Int!
		title: String
		author: String
		by: String!
		descendants: Int!
		score: Int!
		time: Int!
		url: String
		text: String
		kids: [Int!]
		kidsConnection(limit: Int): [Item!]!
		byUser: User
	}

	type Comment implements Item {
		id: Int!
		title: String
		author: String
		by: String!
		parent: Int!
		text: String!
		time: Int!
		kids: [Int!]
		kidsConnection(limit: Int): [Item!]!
		byUser: User
	}

	type Job implements Item {
		id: Int!
		title: String
		author: String
		score: Int!
		text: String
		time: Int!
		url: String
	}

	type Poll implements Item {
		id: Int!
		title: String
		author: String
		by: String!
		descendants: Int!
		score: Int!
		text: String
		time: Int!
		kids: [Int!]
		kidsConnection(limit: Int): [Item!]!
		parts: [Int!]
		partsConnection(limit: Int): [Item!]!
		byUser: User
	}

	type PollOpt implements Item {
		id: Int!
		title: String
		author: String
		by: String!
		poll: Int!
		score: Int!
		text: String
		time: Int!
		byUser: User
	}

	type User {
		id: String!
		created: Int!
		karma: Int!
		delay: Int
		about: String
		submitted: [Int!]!
		submittedConnection(limit: Int): [Item!]!
	}

	type Updates {
		items: [Int!]!
		profiles: [String!]!
		itemsConnection(limit: Int): [Item!]!
		profilesConnection(limit: Int): [User!]!
	}
`
