package discovery

// Recorded command output used across the package tests.

const lsofListing = `COMMAND     PID USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
node      41235   me   23u  IPv6 0x9f2c1b7a4e3d5c01      0t0  TCP *:3000 (LISTEN)
node      41235   me   24u  IPv4 0x9f2c1b7a4e3d5c02      0t0  TCP 127.0.0.1:3000 (LISTEN)
node      41302   me   31u  IPv4 0x9f2c1b7a4e3d5c03      0t0  TCP 127.0.0.1:4200 (LISTEN)
postgres    612   me    7u  IPv6 0x9f2c1b7a4e3d5c04      0t0  TCP [::1]:5432 (LISTEN)
rapportd    540   me    4u  IPv4 0x9f2c1b7a4e3d5c05      0t0  TCP *:49152 (LISTEN)
node      41302   me   40u  IPv4 0x9f2c1b7a4e3d5c06      0t0  TCP 127.0.0.1:4200->127.0.0.1:61000 (ESTABLISHED)
`

const lsofCwdStorefront = `COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF     NODE NAME
node    41235   me  cwd    DIR    1,4      640 12345678 /Users/me/code/storefront
`

const lsofCwdAdmin = `COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF     NODE NAME
node    41302   me  cwd    DIR    1,4      640 12345679 /Users/me/code/admin panel/node_modules/.bin
`

const netstatListing = "\r\nActive Connections\r\n\r\n" +
	"  Proto  Local Address          Foreign Address        State           PID\r\n" +
	"  TCP    0.0.0.0:135            0.0.0.0:0              LISTENING       1016\r\n" +
	"  TCP    0.0.0.0:5173           0.0.0.0:0              LISTENING       8120\r\n" +
	"  TCP    [::]:5173              [::]:0                 LISTENING       8120\r\n" +
	"  TCP    127.0.0.1:3000         0.0.0.0:0              LISTENING       9044\r\n" +
	"  TCP    127.0.0.1:52011        127.0.0.1:3000         ESTABLISHED     7000\r\n" +
	"  UDP    0.0.0.0:5353           *:*                                    2220\r\n"

const tasklistCSV = "\"node.exe\",\"8120\",\"Console\",\"1\",\"61,320 K\"\r\n" +
	"\"node.exe\",\"9044\",\"Console\",\"1\",\"48,004 K\"\r\n"

const wmicWebShop = "CommandLine  \r\r\n" +
	"\"C:\\Program Files\\nodejs\\node.exe\" \"C:\\Users\\me\\code\\web-shop\\node_modules\\vite\\bin\\vite.js\"  \r\r\n\r\r\n"

const wmicAdmin = "CommandLine  \r\r\n" +
	"\"C:\\Program Files\\nodejs\\node.exe\" C:\\Users\\me\\code\\admin\\node_modules\\next\\dist\\bin\\next dev  \r\r\n\r\r\n"
